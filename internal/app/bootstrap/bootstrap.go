package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	curationservice "refinery/contexts/data-refinery/curation-service"
	curationmemory "refinery/contexts/data-refinery/curation-service/adapters/memory"
	curationpostgres "refinery/contexts/data-refinery/curation-service/adapters/postgres"
	marketplaceservice "refinery/contexts/data-refinery/marketplace-service"
	marketplacememory "refinery/contexts/data-refinery/marketplace-service/adapters/memory"
	marketplacepostgres "refinery/contexts/data-refinery/marketplace-service/adapters/postgres"
	marketplaceworkers "refinery/contexts/data-refinery/marketplace-service/application/workers"
	refinementservice "refinery/contexts/data-refinery/refinement-service"
	refinementmemory "refinery/contexts/data-refinery/refinement-service/adapters/memory"
	refinementpostgres "refinery/contexts/data-refinery/refinement-service/adapters/postgres"
	refinementworkers "refinery/contexts/data-refinery/refinement-service/application/workers"
	refinementservices "refinery/contexts/data-refinery/refinement-service/domain/services"
	"refinery/internal/platform/config"
	"refinery/internal/platform/db"
	"refinery/internal/platform/httpserver"
	"refinery/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres       *db.Postgres
	staleRunFailer refinementworkers.StaleRunFailer
	outboxRelay    marketplaceworkers.OutboxRelay
	runStaleFailer bool
	runOutboxRelay bool
	pollInterval   time.Duration
	logger         *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.Options{
		MaxOpenConns: cfg.PostgresMaxOpenConns,
		MaxIdleConns: cfg.PostgresMaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	refinementRepo := refinementpostgres.NewRepository(pg.DB, logger)
	curationRepo := curationpostgres.NewRepository(pg.DB, logger)
	marketplaceRepo := marketplacepostgres.NewRepository(pg.DB, logger)

	refinementModule := refinementservice.NewModule(refinementservice.Dependencies{
		Datasets:    refinementRepo,
		Items:       refinementRepo,
		Records:     refinementRepo,
		Ingestions:  refinementRepo,
		Packages:    refinementPackageChecker{packages: curationRepo},
		Scorer:      refinementservices.HeuristicScorer{},
		Similarity:  refinementservices.TokenJaccardSimilarity{},
		Classifier:  refinementservices.MetadataClassifier{},
		Clock:       refinementpostgres.SystemClock{},
		IDGenerator: refinementpostgres.UUIDGenerator{},
		StaleRunAge: cfg.StaleRunAge,
		Logger:      logger,
	})

	curationModule := curationservice.NewModule(curationservice.Dependencies{
		Packages: curationRepo,
		Datasets: curationDatasetGateway{
			datasets: refinementRepo,
			items:    refinementRepo,
			records:  refinementRepo,
		},
		Lifecycle:   curationDatasetLifecycle{datasets: refinementRepo, clock: systemClock{}},
		Clock:       curationpostgres.SystemClock{},
		IDGenerator: curationpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	marketplaceModule := marketplaceservice.NewModule(marketplaceservice.Dependencies{
		Listings: marketplaceRepo,
		Reviews:  marketplaceRepo,
		Sales:    marketplaceRepo,
		Outbox:   marketplaceRepo,
		Catalog: marketplacePackageCatalog{
			packages:         curationRepo,
			setSaleReadiness: curationModule.SetSaleReadiness,
		},
		Lifecycle: marketplaceDatasetLifecycle{datasets: refinementRepo, clock: systemClock{}},
		Publisher: kafka,
		Clock:     marketplacepostgres.SystemClock{},
		IDGen:     marketplacepostgres.UUIDGenerator{},
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	})

	server := httpserver.New(refinementModule, curationModule, marketplaceModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.Options{
		MaxOpenConns: cfg.PostgresMaxOpenConns,
		MaxIdleConns: cfg.PostgresMaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	refinementRepo := refinementpostgres.NewRepository(pg.DB, logger)
	marketplaceRepo := marketplacepostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		staleRunFailer: refinementworkers.StaleRunFailer{
			Datasets: refinementRepo,
			Clock:    refinementpostgres.SystemClock{},
			MaxAge:   cfg.StaleRunAge,
			Logger:   logger,
		},
		outboxRelay: marketplaceworkers.OutboxRelay{
			Outbox:    marketplaceRepo,
			Publisher: kafka,
			Clock:     marketplacepostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		runStaleFailer: cfg.EnableStaleRunFailer,
		runOutboxRelay: cfg.EnableOutboxRelay,
		pollInterval:   cfg.WorkerInterval,
		logger:         logger,
	}, nil
}

// InMemoryStack is the full three-module composition over in-memory stores,
// used by scenario tests.
type InMemoryStack struct {
	Refinement  refinementservice.Module
	Curation    curationservice.Module
	Marketplace marketplaceservice.Module
	Bus         *messaging.Kafka
}

// NewInMemoryStack wires refinement, curation, and marketplace modules with
// the same cross-module bridges the postgres runtime uses.
func NewInMemoryStack(logger *slog.Logger) (InMemoryStack, error) {
	bus, err := messaging.NewKafka(nil, logger)
	if err != nil {
		return InMemoryStack{}, err
	}

	refinementStore := refinementmemory.NewStore(nil, logger)
	curationStore := curationmemory.NewStore(nil, logger)
	marketplaceStore := marketplacememory.NewStore(nil, logger)

	refinementModule := refinementservice.NewModule(refinementservice.Dependencies{
		Datasets:    refinementStore,
		Items:       refinementStore,
		Records:     refinementStore,
		Ingestions:  refinementStore,
		Packages:    refinementPackageChecker{packages: curationStore},
		Scorer:      refinementservices.HeuristicScorer{},
		Similarity:  refinementservices.TokenJaccardSimilarity{},
		Classifier:  refinementservices.MetadataClassifier{},
		Clock:       refinementStore,
		IDGenerator: refinementStore,
		StaleRunAge: time.Hour,
		Logger:      logger,
	})
	refinementModule.Store = refinementStore

	curationModule := curationservice.NewModule(curationservice.Dependencies{
		Packages: curationStore,
		Datasets: curationDatasetGateway{
			datasets: refinementStore,
			items:    refinementStore,
			records:  refinementStore,
		},
		Lifecycle:   curationDatasetLifecycle{datasets: refinementStore, clock: refinementStore},
		Clock:       curationStore,
		IDGenerator: curationStore,
		Logger:      logger,
	})
	curationModule.Store = curationStore

	marketplaceModule := marketplaceservice.NewModule(marketplaceservice.Dependencies{
		Listings: marketplaceStore,
		Reviews:  marketplaceStore,
		Sales:    marketplaceStore,
		Outbox:   marketplaceStore,
		Catalog: marketplacePackageCatalog{
			packages:         curationStore,
			setSaleReadiness: curationModule.SetSaleReadiness,
		},
		Lifecycle: marketplaceDatasetLifecycle{datasets: refinementStore, clock: refinementStore},
		Publisher: bus,
		Clock:     marketplaceStore,
		IDGen:     marketplaceStore,
		Logger:    logger,
	})
	marketplaceModule.Store = marketplaceStore

	return InMemoryStack{
		Refinement:  refinementModule,
		Curation:    curationModule,
		Marketplace: marketplaceModule,
		Bus:         bus,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.runStaleFailer {
			if err := w.staleRunFailer.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.runOutboxRelay {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
