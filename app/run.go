package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joshjon/kit/log"
	"github.com/joshjon/kit/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ospoc/ospoc/constants"
	"github.com/ospoc/ospoc/logkey"
	"github.com/ospoc/ospoc/order"
	"github.com/ospoc/ospoc/orderapi"
	"github.com/ospoc/ospoc/postgres"
	"github.com/ospoc/ospoc/postgres/migrations"
	"github.com/ospoc/ospoc/provision"
	"github.com/ospoc/ospoc/sqlite"
	sqlitemigrations "github.com/ospoc/ospoc/sqlite/migrations"
)

const corsMaxAgeSeconds = 3600

// Run starts the order service and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, logger log.Logger, cfg Config) error {
	store, closeStore, err := openOrderStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	provisioner, err := provision.NewClient(provisionConfig(cfg.OSP))
	if err != nil {
		return fmt.Errorf("create provisioning client: %w", err)
	}
	logger.Info("provisioning namespaces", logkey.ProvisionURL, cfg.OSP.URL)

	svc := order.NewService(store, provisioner, order.WithLogger(logger))

	srv, err := server.NewServer(cfg.Port,
		server.WithLogger(logger),
		server.WithMiddleware(CORSMiddleware(cfg.CorsOrigins)),
	)
	if err != nil {
		return err
	}
	srv.Register(constants.APIPathPrefix, orderapi.NewHTTPHandler(svc))

	return Serve(ctx, srv, logger)
}

// CORSMiddleware allows cross-origin requests from the given origins with
// the preflight response cached for an hour.
func CORSMiddleware(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{defaultCORSOrigin}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		MaxAge: corsMaxAgeSeconds,
	})
}

func openOrderStore(ctx context.Context, logger log.Logger, cfg Config) (*order.Store, func(), error) {
	if cfg.Postgres != nil {
		pgCfg := *cfg.Postgres
		pgCfg.InitDefaults()

		pg, err := postgres.Dial(ctx, pgCfg.User, pgCfg.Password, pgCfg.HostPort, pgCfg.Database, getPostgresDialOpts(pgCfg)...)
		if err != nil {
			return nil, nil, err
		}
		if err = migrations.MigrateDatabase(pg); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("using postgres order store", "postgres.host_port", pgCfg.HostPort, "postgres.database", pgCfg.Database)
		return order.NewStore(postgres.NewTxer(pg), postgres.NewOrderRepository(pg)), pg.Close, nil
	}

	var openOpts []sqlite.OpenOption
	if cfg.SQLite.InMemory {
		openOpts = append(openOpts, sqlite.WithInMemory())
	} else {
		openOpts = append(openOpts, sqlite.WithDir(cfg.SQLite.Dir))
	}

	db, err := sqlite.Open(ctx, openOpts...)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close sqlite database", logkey.Error, err)
		}
	}
	if err = sqlite.MigrateDatabase(db, sqlitemigrations.FS); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	logger.Info("using sqlite order store", "sqlite.dir", cfg.SQLite.Dir, "sqlite.in_memory", cfg.SQLite.InMemory)
	return order.NewStore(sqlite.NewTxer(db), sqlite.NewOrderRepository(db)), closeDB, nil
}

func provisionConfig(cfg OSPConfig) provision.Config {
	pcfg := provision.Config{
		URL:   cfg.URL,
		Token: cfg.Token,
	}
	if cfg.TLS != nil {
		pcfg.TLS = &provision.TLSConfig{
			CACertFile:         cfg.TLS.CACertFile,
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
		}
	}
	return pcfg
}

func getPostgresDialOpts(cfg PostgresConfig) []postgres.DialOption {
	var pgOpts []postgres.DialOption
	if cfg.TLS != nil {
		pgOpts = append(pgOpts, postgres.WithTLS(postgres.TLSConfig{
			CertFile:           cfg.TLS.CertFile,
			KeyFile:            cfg.TLS.KeyFile,
			CACertFile:         cfg.TLS.CACertFile,
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
		}))
	}
	if cfg.MaxConns > 0 {
		pgOpts = append(pgOpts, postgres.WithMaxConns(cfg.MaxConns))
	}
	return pgOpts
}
