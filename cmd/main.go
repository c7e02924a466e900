package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"prediction-api/internal/catalog"
	"prediction-api/internal/config"
	"prediction-api/internal/database/minio"
	"prediction-api/internal/database/postgres"
	"prediction-api/internal/dispatch"
	"prediction-api/internal/handlers"
	"prediction-api/internal/repository"
	"prediction-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return file, nil
}

func main() {
	cfg := config.New()

	logFile, err := setupLogging(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	artifacts, err := minio.NewArtifactStore(cfg.MinioCfg)
	if err != nil {
		log.Printf("artifact store unavailable, raw references will be served: %s", err)
	}

	aoiRepo := repository.NewAOIRepository(db)
	jobRepo := repository.NewJobRepository(db)
	modelRepo := repository.NewModelRepository(db)
	satelliteRepo := repository.NewSatelliteRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	sclRepo := repository.NewSCLRepository(db)

	dispatcher := dispatch.NewGitHubDispatcher(cfg.DispatchCfg)
	catalogClient := catalog.NewClient(cfg.CatalogCfg)

	aoiService := services.NewAOIService(aoiRepo, cfg)
	jobService := services.NewJobService(jobRepo, aoiRepo, modelRepo, artifacts, cfg)
	predictionService := services.NewPredictionService(predictionRepo, aoiRepo, modelRepo, jobRepo, dispatcher, artifacts, cfg)
	sclService := services.NewSCLService(sclRepo, aoiRepo)
	modelService := services.NewModelService(modelRepo, satelliteRepo)
	satelliteService := services.NewSatelliteService(satelliteRepo)

	app := fiber.New()

	handlers.NewHealthHandler().RegisterRoutes(app)
	handlers.NewAOIHandler(aoiService).RegisterRoutes(app)
	handlers.NewJobHandler(jobService).RegisterRoutes(app)
	handlers.NewPredictionHandler(predictionService, catalogClient).RegisterRoutes(app)
	handlers.NewSCLHandler(sclService).RegisterRoutes(app)
	handlers.NewModelHandler(modelService).RegisterRoutes(app)
	handlers.NewSatelliteHandler(satelliteService).RegisterRoutes(app)

	log.Printf("Listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
