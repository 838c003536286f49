package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/cardroom/scorepad/external/notify"
	"github.com/cardroom/scorepad/internal/config"
	"github.com/cardroom/scorepad/internal/domain/bridge"
	"github.com/cardroom/scorepad/internal/infrastructure/repository/memory"
	"github.com/cardroom/scorepad/internal/infrastructure/repository/postgres"
	"github.com/cardroom/scorepad/internal/interfaces/httpapi"
	idgen "github.com/cardroom/scorepad/internal/platform/id"
	"github.com/cardroom/scorepad/internal/platform/logging"
	"github.com/cardroom/scorepad/internal/platform/resilience"
	"github.com/cardroom/scorepad/internal/usecase"
)

// NewHTTPServer assembles the service. The returned cleanup releases
// the database handle and the webhook worker pool; call it after the
// server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	rubberRepo, repoCleanup, err := newRubberRepository(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if repoCleanup != nil {
		cleanups = append(cleanups, repoCleanup)
	}

	notifier, notifierCleanup, err := newChangeNotifier(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if notifierCleanup != nil {
		cleanups = append(cleanups, notifierCleanup)
	}

	generator := idgen.NewRandomGenerator()
	rubberSvc := usecase.NewRubberService(rubberRepo, generator, notifier)
	auctionSvc := usecase.NewAuctionService(rubberRepo, generator, notifier)

	handler := httpapi.NewHandler(rubberSvc, auctionSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func newRubberRepository(cfg config.Config, logger *logging.Logger) (bridge.Repository, func(), error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory rubber store", "reason", "DB_URL empty")
		return memory.NewRubberRepository(), nil, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using postgres rubber store", "database", dbNameFromURL(cfg.DBURL))

	return postgres.NewRubberRepository(db), func() {
		if err := db.Close(); err != nil {
			logger.Warn("close database", "error", err)
		}
	}, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func newChangeNotifier(cfg config.Config, logger *logging.Logger) (usecase.ChangeNotifier, func(), error) {
	if !cfg.WebhookEnabled {
		logger.Info("change webhook disabled", "reason", "WEBHOOK_ENABLED=false")
		return nil, nil, nil
	}

	publisher, err := notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
		URL:     cfg.WebhookURL,
		Token:   cfg.WebhookToken,
		Timeout: cfg.WebhookTimeout,
		Workers: cfg.WebhookWorkers,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WebhookCircuitEnabled,
			FailureThreshold: cfg.WebhookCircuitFailureCount,
			OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMax,
		},
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create webhook publisher: %w", err)
	}
	logger.Info("change webhook enabled", "url", cfg.WebhookURL, "workers", cfg.WebhookWorkers)

	return publisher, publisher.Close, nil
}
