package refinementservice

import (
	"log/slog"
	"time"

	httpadapter "refinery/contexts/data-refinery/refinement-service/adapters/http"
	"refinery/contexts/data-refinery/refinement-service/adapters/memory"
	"refinery/contexts/data-refinery/refinement-service/application/commands"
	"refinery/contexts/data-refinery/refinement-service/application/queries"
	"refinery/contexts/data-refinery/refinement-service/application/workers"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	"refinery/contexts/data-refinery/refinement-service/domain/services"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

// Module is the composition surface of the refinement service.
// Runtime wiring should consume Handler and StaleRunFailer; Store is exposed
// for tests/inspection.
type Module struct {
	Handler        httpadapter.Handler
	StaleRunFailer workers.StaleRunFailer
	Store          *memory.Store
}

type Dependencies struct {
	Datasets    ports.DatasetRepository
	Items       ports.ItemRepository
	Records     ports.RefinementRecordRepository
	Ingestions  ports.IngestionRecordRepository
	Packages    ports.PackageReferenceChecker
	Scorer      ports.QualityScorer
	Similarity  ports.SimilarityStrategy
	Classifier  ports.Classifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	StaleRunAge time.Duration
	Logger      *slog.Logger
}

// NewModule wires the refinement use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	createDataset := commands.CreateDatasetUseCase{
		Datasets:    deps.Datasets,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	ingestItems := commands.IngestItemsUseCase{
		Datasets:    deps.Datasets,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	refineDataset := commands.RefineDatasetUseCase{
		Datasets:    deps.Datasets,
		Items:       deps.Items,
		Scorer:      deps.Scorer,
		Similarity:  deps.Similarity,
		Classifier:  deps.Classifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	deleteDataset := commands.DeleteDatasetUseCase{
		Datasets: deps.Datasets,
		Packages: deps.Packages,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	getDataset := queries.GetDatasetUseCase{
		Datasets: deps.Datasets,
		Items:    deps.Items,
		Logger:   deps.Logger,
	}
	listDatasets := queries.ListDatasetsUseCase{
		Datasets: deps.Datasets,
		Logger:   deps.Logger,
	}
	getStatus := queries.GetRefinementStatusUseCase{
		Datasets: deps.Datasets,
		Records:  deps.Records,
		Logger:   deps.Logger,
	}
	exportMetrics := queries.ExportMetricsUseCase{
		Datasets: deps.Datasets,
		Records:  deps.Records,
		Logger:   deps.Logger,
	}
	listIngestions := queries.ListIngestionsUseCase{
		Datasets:   deps.Datasets,
		Ingestions: deps.Ingestions,
		Logger:     deps.Logger,
	}

	handler := httpadapter.Handler{
		CreateDataset:  createDataset,
		IngestItems:    ingestItems,
		RefineDataset:  refineDataset,
		DeleteDataset:  deleteDataset,
		GetDataset:     getDataset,
		ListDatasets:   listDatasets,
		GetStatus:      getStatus,
		ExportMetrics:  exportMetrics,
		ListIngestions: listIngestions,
		Logger:         deps.Logger,
	}

	staleRunFailer := workers.StaleRunFailer{
		Datasets: deps.Datasets,
		Clock:    deps.Clock,
		MaxAge:   deps.StaleRunAge,
		Logger:   deps.Logger,
	}

	return Module{Handler: handler, StaleRunFailer: staleRunFailer}
}

// NewInMemoryModule wires the refinement use cases against in-memory adapters
// and the default heuristic pipeline strategies.
func NewInMemoryModule(seedDatasets []entities.Dataset, logger *slog.Logger) Module {
	store := memory.NewStore(seedDatasets, logger)
	module := NewModule(Dependencies{
		Datasets:    store,
		Items:       store,
		Records:     store,
		Ingestions:  store,
		Scorer:      services.HeuristicScorer{},
		Similarity:  services.TokenJaccardSimilarity{},
		Classifier:  services.MetadataClassifier{},
		Clock:       store,
		IDGenerator: store,
		StaleRunAge: time.Hour,
		Logger:      logger,
	})
	module.Store = store
	return module
}
