package curationservice

import (
	"log/slog"

	httpadapter "refinery/contexts/data-refinery/curation-service/adapters/http"
	"refinery/contexts/data-refinery/curation-service/adapters/memory"
	"refinery/contexts/data-refinery/curation-service/application/commands"
	"refinery/contexts/data-refinery/curation-service/application/queries"
	"refinery/contexts/data-refinery/curation-service/domain/entities"
	"refinery/contexts/data-refinery/curation-service/ports"
)

// Module is the composition surface of the curation service. Runtime wiring
// should consume Handler; Store and the use cases reachable through it are
// exposed for tests and cross-module bridges.
type Module struct {
	Handler          httpadapter.Handler
	SetSaleReadiness commands.SetSaleReadinessUseCase
	Packages         ports.PackageRepository
	Store            *memory.Store
}

type Dependencies struct {
	Packages    ports.PackageRepository
	Datasets    ports.DatasetGateway
	Lifecycle   ports.DatasetLifecycle
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the curation use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	createPackage := commands.CreatePackageUseCase{
		Packages:    deps.Packages,
		Datasets:    deps.Datasets,
		Lifecycle:   deps.Lifecycle,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	setSaleReadiness := commands.SetSaleReadinessUseCase{
		Packages: deps.Packages,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	getPackage := queries.GetPackageUseCase{
		Packages: deps.Packages,
		Logger:   deps.Logger,
	}
	listPackages := queries.ListPackagesUseCase{
		Packages: deps.Packages,
		Logger:   deps.Logger,
	}
	exportPackage := queries.ExportPackageUseCase{
		Packages: deps.Packages,
		Logger:   deps.Logger,
	}

	handler := httpadapter.Handler{
		CreatePackage:    createPackage,
		SetSaleReadiness: setSaleReadiness,
		GetPackage:       getPackage,
		ListPackages:     listPackages,
		ExportPackage:    exportPackage,
		Logger:           deps.Logger,
	}

	return Module{
		Handler:          handler,
		SetSaleReadiness: setSaleReadiness,
		Packages:         deps.Packages,
	}
}

// NewInMemoryModule wires the curation use cases against the in-memory
// package store. Dataset gateway and lifecycle bridges come from the caller
// so tests can pair this module with an in-memory refinement module.
func NewInMemoryModule(
	seedPackages []entities.DataPackage,
	datasets ports.DatasetGateway,
	lifecycle ports.DatasetLifecycle,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seedPackages, logger)
	module := NewModule(Dependencies{
		Packages:    store,
		Datasets:    datasets,
		Lifecycle:   lifecycle,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
