package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pmdash/internal/clients"
	"pmdash/internal/config"
	"pmdash/internal/handlers"
	"pmdash/internal/middleware"
	"pmdash/internal/repository"
	"pmdash/internal/service"
	"pmdash/internal/worker"
	"pmdash/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.App.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if envErr != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	log.Info().Msg("=== Power Module Datasheet starting ===")

	// Upload slots: Redis when enabled, otherwise in memory with a sweeper.
	var (
		uploads repository.UploadRepository
		stats   handlers.StatsFunc
		sweeper repository.Sweeper
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.Connect(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisClient.Close()

		uploads = repository.NewRedisUploadRepository(repository.NewCacheRepository(redisClient), cfg.Uploads.TTL)
		stats = func() (map[string]string, error) { return redis.GetStats(redisClient) }
	} else {
		memory := repository.NewMemoryUploadRepository(cfg.Uploads.TTL)
		uploads = memory
		sweeper, _ = memory.(repository.Sweeper)
	}

	dataset := repository.NewDatasetRepository()

	datasheetClient := clients.NewDatasheetClient(clients.DatasheetConfig{
		InsecureTLS: cfg.Data.InsecureTLS,
		Timeout:     cfg.Data.Timeout,
	})
	documentClient := clients.NewDocumentClient(cfg.Data.InsecureTLS, cfg.Data.Timeout)

	datasetService := service.NewDatasetService(dataset, datasheetClient, service.DatasetConfig{
		MasterURL:   cfg.Data.MasterURL,
		RevisionURL: cfg.Data.RevisionURL,
	})
	queryService := service.NewQueryService(dataset)
	cardService := service.NewCardService(uploads)
	documentService := service.NewDocumentService(cfg.Documents.Dir, cfg.Documents.Company, cfg.Documents.Competitors, documentClient)
	benchmarkService := service.NewBenchmarkService()
	panelService := service.NewPanelService()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*cfg.Data.Timeout)
	if err := datasetService.Load(loadCtx); err != nil {
		cancelLoad()
		log.Fatal().Err(err).Msg("failed to load datasheet")
	}
	documentService.Check(loadCtx)
	cancelLoad()
	log.Info().Int("records", dataset.Count()).Msg("datasheet loaded")

	scheduler := worker.NewScheduler()
	companion := worker.NewCompanionWorker(cfg.Companion.Command)
	scheduler.AddWorker(companion)
	if sweeper != nil {
		scheduler.AddWorker(worker.NewSweepWorker(sweeper, cfg.Uploads.TTL/4))
	}
	go scheduler.Start()
	defer scheduler.Stop()

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Debug().Msg("running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	pages, err := handlers.LoadTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse page templates")
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(pages)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting is off in debug mode.
	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		r.Use(middleware.IPRateLimitMiddleware(middleware.NewIPRateLimiter(
			rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)))
		log.Info().
			Int("rps", cfg.RateLimit.RequestsPerSecond).
			Int("burst", cfg.RateLimit.Burst).
			Msg("rate limiting enabled")
	}

	r.Use(middleware.Session(int(cfg.Uploads.TTL / time.Second)))
	r.Static("/assets", cfg.Documents.Dir)

	handlers.RegisterRoutes(r, handlers.Handlers{
		Pages:     handlers.NewPageHandler(queryService, cardService, documentService, benchmarkService, companion),
		Records:   handlers.NewRecordsHandler(queryService, panelService),
		Cards:     handlers.NewCardHandler(cardService, cfg.Uploads.MaxBytes),
		Documents: handlers.NewDocumentHandler(documentService, benchmarkService),
		Health:    handlers.NewHealthHandler(dataset, stats),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("server starting on http://localhost:%s", cfg.App.Port)
		log.Info().Msgf("health check: http://localhost:%s/api/v1/health", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
