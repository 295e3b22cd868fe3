package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shipwatch/internal/auth"
	"shipwatch/internal/config"
	"shipwatch/internal/logger"
	"shipwatch/internal/repository/sqldb"
	"shipwatch/internal/route"
	"shipwatch/internal/service"
	"shipwatch/internal/service/ai"
	"shipwatch/internal/service/pipeline"
	"shipwatch/internal/service/websocket"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqldb.DB
	detector   ai.Detector
	recognizer ai.Recognizer
	hubService *websocket.HubService
	manager    *service.Manager
	router     http.Handler
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	db, err := OpenDatabase(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	detector, err := NewDetector(cfg, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create detector: %w", err)
	}
	recognizer, err := NewRecognizer(cfg)
	if err != nil {
		db.Close()
		detector.Close()
		return nil, fmt.Errorf("create recognizer: %w", err)
	}
	uploader, err := NewUploader(cfg)
	if err != nil {
		db.Close()
		detector.Close()
		recognizer.Close()
		return nil, fmt.Errorf("create image host: %w", err)
	}
	authService, err := auth.NewService(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	if err != nil {
		db.Close()
		detector.Close()
		recognizer.Close()
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	videos := sqldb.NewVideoRepository(db)
	results := sqldb.NewResultRepository(db)
	profiles := sqldb.NewShipProfileRepository(db)

	analyzer := pipeline.NewAnalyzer(detector, recognizer, cfg.DetectionThreshold, cfg.OCRThreshold, log)
	processor := pipeline.NewVideoProcessor(analyzer, OpenVideo, uploader, videos, results, pipeline.VideoOptions{
		FrameDirectory: cfg.FrameDirectory(),
		SampleSeconds:  cfg.SampleSeconds,
		DefaultFPS:     cfg.DefaultFPS,
		MaxFrameWidth:  cfg.MaxFrameWidth,
	}, log)
	streamer := pipeline.NewStreamer(analyzer, OpenVideo, pipeline.StreamOptions{
		SampleSeconds: cfg.StreamSampleSeconds,
		DefaultFPS:    cfg.StreamDefaultFPS,
		MaxFrameWidth: cfg.MaxFrameWidth,
	}, log)

	hub := websocket.NewHubService(log)
	manager := service.NewManager(processor, hub, log)

	router := route.SetupRoutes(route.Dependencies{
		Config:     cfg,
		Logger:     log,
		Auth:       authService,
		Videos:     videos,
		Results:    results,
		Profiles:   profiles,
		Jobs:       manager,
		Hub:        hub,
		Images:     analyzer,
		Streamer:   streamer,
		Detector:   detector,
		Recognizer: recognizer,
	})

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		detector:   detector,
		recognizer: recognizer,
		hubService: hub,
		manager:    manager,
		router:     router,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down the server, the
// running video jobs and the hub.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("🚢 Ship Detection Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🗄️  Database: %s\n", a.config.DBDriver)
	fmt.Printf("🤖 Detector: %s, OCR: %s\n", a.config.DetectorBackend, a.config.OCRBackend)
	fmt.Printf("🖼️  Image host: %s\n", a.config.ImageHost)
	fmt.Printf("🔒 Auth required: %v\n", a.config.AuthRequired)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.hubService.Run(gctx)
	})

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("🛑 Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("HTTP shutdown: %v", err)
		}
		return a.manager.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) close() {
	a.detector.Close()
	a.recognizer.Close()
	a.db.Close()
	a.logger.Close()
}
