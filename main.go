package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"statkit/adapters/postgres"
	"statkit/app"
	"statkit/internal"
	"statkit/internal/analysis"
	"statkit/internal/config"
	"statkit/internal/errors"
	"statkit/ports"
	"statkit/ui"
)

// initDatabase connects to PostgreSQL and prepares the result store. A
// missing DATABASE_URL is not fatal: the engine runs fine without
// persistence, it just cannot serve stored analyses.
func initDatabase(appConfig *config.Config, logger *internal.Logger) (*sqlx.DB, ports.AnalysisRepositoryPort, error) {
	if appConfig.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, running without result storage")
		return nil, nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to database")
	}

	repository := postgres.NewAnalysisRepository(db)
	if impl, ok := repository.(*postgres.AnalysisRepositoryImpl); ok {
		if err := impl.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return db, repository, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	gin.SetMode(appConfig.Server.GinMode)

	db, repository, err := initDatabase(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	engine := analysis.NewEngine(logger).WithPostHocTimeout(appConfig.Analysis.PostHocTimeout)
	service := app.NewAnalysisService(engine, repository, logger)
	server := ui.NewServer(service, logger)

	if appConfig.Profiling.Enabled {
		go func() {
			addr := ":" + appConfig.Profiling.Port
			logger.Info("debug server listening on %s", addr)
			if err := http.ListenAndServe(addr, ui.NewDebugRouter()); err != nil {
				logger.Error("debug server stopped: %v", err)
			}
		}()
	}

	addr := ":" + appConfig.Server.Port
	logger.Info("API server listening on %s", addr)
	if err := server.Run(addr); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
