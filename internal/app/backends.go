package app

import (
	"fmt"

	"shipwatch/internal/config"
	"shipwatch/internal/logger"
	"shipwatch/internal/repository/sqldb"
	"shipwatch/internal/service/ai"
	"shipwatch/internal/service/ai/dnn"
	"shipwatch/internal/service/ai/tesseract"
	"shipwatch/internal/service/capture"
	"shipwatch/internal/service/imagehost"
	"shipwatch/internal/service/pipeline"
)

// OpenDatabase opens the configured database and seeds demo data when enabled.
func OpenDatabase(cfg *config.Config, logger *logger.Logger) (*sqldb.DB, error) {
	db, err := sqldb.New(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	if cfg.SeedDemoData {
		inserted, err := sqldb.Seed(sqldb.NewVideoRepository(db), sqldb.NewShipProfileRepository(db))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		if inserted > 0 {
			logger.Info("🌱 Seeded %d demo record(s)", inserted)
		}
	}
	return db, nil
}

// NewDetector builds the detector selected by DETECTOR_BACKEND.
func NewDetector(cfg *config.Config, logger *logger.Logger) (ai.Detector, error) {
	detectorConfig, err := ai.LoadDetectorConfig(cfg.DetectorConfigPath)
	if err != nil {
		return nil, err
	}

	switch cfg.DetectorBackend {
	case "dnn":
		detector, err := dnn.NewDetector(cfg.ModelPath, detectorConfig, logger)
		if err != nil {
			return nil, err
		}
		return detector, nil
	case "remote":
		return ai.NewRemoteDetector(cfg.DetectorURL, detectorConfig), nil
	default:
		return nil, fmt.Errorf("unknown detector backend: %s", cfg.DetectorBackend)
	}
}

// NewRecognizer builds the OCR engine selected by OCR_BACKEND.
func NewRecognizer(cfg *config.Config) (ai.Recognizer, error) {
	switch cfg.OCRBackend {
	case "tesseract":
		return tesseract.NewRecognizer(cfg.OCRLanguages), nil
	case "remote":
		return ai.NewRemoteRecognizer(cfg.OCRURL), nil
	default:
		return nil, fmt.Errorf("unknown OCR backend: %s", cfg.OCRBackend)
	}
}

// NewUploader builds the crop host selected by IMAGE_HOST.
func NewUploader(cfg *config.Config) (imagehost.Uploader, error) {
	switch cfg.ImageHost {
	case "local":
		return imagehost.NewLocal(cfg.HostedDirectory(), cfg.PublicBaseURL), nil
	case "lsky":
		if cfg.LskyURL == "" || cfg.LskyToken == "" {
			return nil, fmt.Errorf("IMAGE_HOST=lsky needs LSKY_URL and LSKY_TOKEN")
		}
		return imagehost.NewLsky(cfg.LskyURL, cfg.LskyToken, cfg.LskyStrategyID), nil
	default:
		return nil, fmt.Errorf("unknown image host: %s", cfg.ImageHost)
	}
}

// OpenVideo opens a local video file with OpenCV.
func OpenVideo(path string) (pipeline.FrameSource, error) {
	video, err := capture.Open(path)
	if err != nil {
		return nil, err
	}
	return video, nil
}
