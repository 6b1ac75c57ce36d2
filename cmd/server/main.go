package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/internal/infrastructure/config"
	"tripplanner-service/internal/infrastructure/persistence"
	"tripplanner-service/internal/interface/api"
	repo "tripplanner-service/internal/interface/repository"
	"tripplanner-service/internal/usecase"
	"tripplanner-service/pkg/logger"
	"tripplanner-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Trip Planner Service", "version", cfg.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("tripplanner", prometheus.DefaultRegisterer)

	// Airport reference data
	var airports repository.AirportRepository
	if cfg.PostgresURI != "" {
		log.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airports = repo.NewGormAirportRepository(gormDB)
	} else {
		log.Warn("POSTGRES_DSN not set, using the built-in airport list")
		airports = repo.NewStaticAirportRepository()
	}

	// Stage journal
	var mongoClient *mongo.Client
	stageRuns := repo.NewNopStageRunRepository()
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoDatabase(ctx, persistence.MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDB,
			Username: cfg.MongoUser,
			Password: cfg.MongoPassword,
		})
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		stageRuns = repo.NewMongoStageRunRepository(db)
	}

	// Collaborators
	model, err := repo.NewOpenAIModel(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
	if err != nil {
		log.Fatal("Failed to create planning model", "error", err)
	}
	planningRepo := repo.NewPlanningRepository(model, cfg.LLMTemperature, log)

	searchOpts := repo.FlightSearchOptions{
		OptionsPerLeg: cfg.FlightOptionsPerLeg,
		RatePerSecond: cfg.FlightSearchRate,
		Burst:         cfg.FlightSearchBurst,
		Timeout:       cfg.HTTPClientTimeout,
	}
	var flightRepo repository.FlightSearchRepository
	switch cfg.FlightProvider {
	case config.FlightProviderAmadeus:
		searchOpts.BaseURL = cfg.AmadeusBaseURL
		searchOpts.ClientID = cfg.AmadeusClientID
		searchOpts.ClientSecret = cfg.AmadeusClientSecret
		flightRepo = repo.NewAmadeusFlightRepository(searchOpts, airports, log)
	default:
		searchOpts.BaseURL = cfg.SerpAPIBaseURL
		searchOpts.APIKey = cfg.SerpAPIKey
		flightRepo = repo.NewSerpAPIFlightRepository(searchOpts, airports, log)
	}
	log.Info("Flight search configured", "provider", cfg.FlightProvider)

	var imageRepo repository.ImageRepository
	if cfg.GetImgAPIKey != "" {
		imageRepo = repo.NewImageRepository(cfg.GetImgBaseURL, cfg.GetImgAPIKey, cfg.HTTPClientTimeout, log)
	} else {
		log.Warn("GETIMG_API_KEY not set, cover images are disabled")
	}

	// Use cases
	searcher := usecase.NewFlightRouteSearcher(flightRepo, log, m, cfg.FlightSearchParallel)
	orchestrator := usecase.NewTripOrchestrator(planningRepo, searcher, stageRuns, log, m)
	consensus := usecase.NewConsensusPlanner(planningRepo, imageRepo, log, m)

	// Set up HTTP server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	api.NewHandler(orchestrator, consensus, log).Register(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Trip Planner Service stopped")
}
