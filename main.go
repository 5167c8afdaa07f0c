package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/perimeterlab/sentrybackend/alerts"
	"github.com/perimeterlab/sentrybackend/config"
	"github.com/perimeterlab/sentrybackend/database"
	"github.com/perimeterlab/sentrybackend/handlers"
	"github.com/perimeterlab/sentrybackend/media"
	"github.com/perimeterlab/sentrybackend/recognition"
	"github.com/perimeterlab/sentrybackend/repository"
	"github.com/perimeterlab/sentrybackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.CapturesPath, cfg.AnnotatedPath, cfg.PreviewsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to access underlying sql.DB: %v", err)
	}

	storageSubDirs := map[media.AssetType]string{
		media.AssetTypeCapture:   filepath.Base(cfg.CapturesPath),
		media.AssetTypeAnnotated: filepath.Base(cfg.AnnotatedPath),
		media.AssetTypePreview:   filepath.Base(cfg.PreviewsPath),
	}
	store, err := media.NewLocalStorage(cfg.StoragePath, storageSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize storage: %v", err)
	}

	// fail fast on a broken cascade path instead of letting every worker die
	probe, err := recognition.NewCascadeLocator(cfg.CascadePath, cfg.ScaleStep, cfg.MinNeighbors, cfg.MinFaceSize)
	if err != nil {
		log.Fatalf("FATAL: Face locator unavailable: %v", err)
	}
	probe.Close()

	corpus := recognition.DirectoryCorpus{Root: cfg.CorpusPath}
	trainer := recognition.NewTrainer(cfg.CanonicalSize)
	handle := recognition.NewHandle()
	if _, err := handle.Retrain(trainer, corpus); err != nil {
		if errors.Is(err, recognition.ErrEmptyCorpus) && cfg.AllowEmptyCorpus {
			log.Printf("WARNING: enrollment corpus is empty; starting in degraded mode, every detected face will be unknown")
		} else {
			log.Fatalf("FATAL: Initial classifier training failed: %v", err)
		}
	}

	mailer := alerts.NewSMTPMailer(alerts.SMTPSettings{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.AlertFrom,
		To:       cfg.AlertTo,
	})

	eventRepo := repository.NewEventRepository(db)

	log.Printf("Initializing capture worker pool (Workers: %d, Queue Size: %d)...", cfg.NumCaptureWorkers, cfg.CaptureQueueSize)
	processor := workers.NewCaptureProcessor(cfg, store, eventRepo, handle, mailer, cfg.CaptureQueueSize, cfg.NumCaptureWorkers)
	defer processor.Stop()

	sweeper := media.NewRetentionSweeper(store,
		[]media.AssetType{media.AssetTypeCapture, media.AssetTypeAnnotated, media.AssetTypePreview},
		cfg.RetentionMaxAgeDays)
	cronRunner := cron.New()
	if err := sweeper.Schedule(cronRunner, cfg.RetentionSchedule); err != nil {
		log.Fatalf("FATAL: Failed to schedule retention sweep: %v", err)
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing captures in: %s", cfg.CapturesPath)
	log.Printf("Enrollment corpus: %s", cfg.CorpusPath)
	log.Printf("Recognition distance threshold: %g", cfg.DistanceThreshold)
	log.Printf("Retention: files older than %d day(s) are swept", cfg.RetentionMaxAgeDays)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	captureHandler := &handlers.CaptureHandler{Store: store, Processor: processor}
	eventHandler := &handlers.EventHandler{Repo: eventRepo, SQLDB: sqlDB, Store: store}
	recognizerHandler := &handlers.RecognizerHandler{Handle: handle, Trainer: trainer, Corpus: corpus}
	retentionHandler := &handlers.RetentionHandler{Sweeper: sweeper}
	adminOnly := handlers.RequireAdminToken(cfg.AdminTokenHash)

	r.Route("/api", func(r chi.Router) {
		r.Post("/captures", captureHandler.UploadCapture)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.With(adminOnly).Delete("/", eventHandler.DeleteAllEvents)
			r.Route("/{event_id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.With(adminOnly).Delete("/", eventHandler.DeleteEvent)
			})
		})

		r.Get("/identities", recognizerHandler.ListIdentities)
		r.With(adminOnly).Post("/recognizer/retrain", recognizerHandler.Retrain)
		r.With(adminOnly).Post("/retention/sweep", retentionHandler.TriggerSweep)

		for _, assetPath := range []string{cfg.CapturesPath, cfg.AnnotatedPath, cfg.PreviewsPath} {
			subDir := filepath.Base(assetPath)
			r.Get(fmt.Sprintf("/%s/*", subDir), handlers.AssetServer(cfg.StoragePath, subDir))
			log.Printf("Registered asset server at /api/%s/*", subDir)
		}
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
