package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int

	DBDriver      string // sqlite3 or mysql
	SQLitePath    string
	MySQLHost     string
	MySQLPort     int
	MySQLUser     string
	MySQLPassword string
	MySQLDBName   string

	DetectorBackend    string // dnn or remote
	ModelPath          string
	DetectorConfigPath string
	DetectorURL        string
	DetectionThreshold float64

	OCRBackend   string // tesseract or remote
	OCRURL       string
	OCRLanguages []string
	OCRThreshold float64

	ImageHost      string // local or lsky
	LskyURL        string
	LskyToken      string
	LskyStrategyID int
	PublicBaseURL  string

	OutputDirectory     string
	SampleSeconds       float64 // Co ile sekund filmu analizować klatkę
	StreamSampleSeconds float64
	DefaultFPS          float64
	StreamDefaultFPS    float64
	MaxFrameWidth       int
	MaxUploadMB         int64

	JWTSecret       string
	TokenTTLMinutes int
	AuthRequired    bool

	SeedDemoData bool
	LogDirectory string
}

// Load reads an optional .env file and builds the configuration from the environment.
func Load() *Config {
	// .env jest opcjonalny, zmienne środowiskowe mają pierwszeństwo
	_ = godotenv.Load()

	return &Config{
		Port: getEnvAsInt("PORT", 8000),

		DBDriver:      getEnv("DB_DRIVER", "sqlite3"),
		SQLitePath:    getEnv("SQLITE_PATH", filepath.Join(".", "data", "shipwatch.db")),
		MySQLHost:     getEnv("MYSQL_HOST", "127.0.0.1"),
		MySQLPort:     getEnvAsInt("MYSQL_PORT", 3306),
		MySQLUser:     getEnv("MYSQL_USER", "root"),
		MySQLPassword: getEnv("MYSQL_PASSWORD", ""),
		MySQLDBName:   getEnv("MYSQL_DB_NAME", "ship_detection"),

		DetectorBackend:    getEnv("DETECTOR_BACKEND", "dnn"),
		ModelPath:          getEnv("MODEL_PATH", filepath.Join(".", "models", "ship_yolov8.onnx")),
		DetectorConfigPath: getEnv("DETECTOR_CONFIG", filepath.Join(".", "models", "detector.yaml")),
		DetectorURL:        getEnv("DETECTOR_URL", "http://127.0.0.1:9001/detect"),
		DetectionThreshold: getEnvAsFloat("DETECTION_THRESHOLD", 0.5),

		OCRBackend:   getEnv("OCR_BACKEND", "tesseract"),
		OCRURL:       getEnv("OCR_URL", "http://127.0.0.1:9002/ocr"),
		OCRLanguages: getEnvAsList("OCR_LANGUAGES", []string{"chi_sim", "eng"}),
		OCRThreshold: getEnvAsFloat("OCR_THRESHOLD", 0.5),

		ImageHost:      getEnv("IMAGE_HOST", "local"),
		LskyURL:        getEnv("LSKY_URL", ""),
		LskyToken:      getEnv("LSKY_TOKEN", ""),
		LskyStrategyID: getEnvAsInt("LSKY_STRATEGY_ID", 0),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8000"),

		OutputDirectory:     getEnv("OUTPUT_DIR", filepath.Join(".", "output")),
		SampleSeconds:       getEnvAsFloat("SAMPLE_SECONDS", 3),
		StreamSampleSeconds: getEnvAsFloat("STREAM_SAMPLE_SECONDS", 1),
		DefaultFPS:          getEnvAsFloat("DEFAULT_FPS", 30),
		StreamDefaultFPS:    getEnvAsFloat("STREAM_DEFAULT_FPS", 25),
		MaxFrameWidth:       getEnvAsInt("MAX_FRAME_WIDTH", 1280),
		MaxUploadMB:         getEnvAsInt64("MAX_UPLOAD_MB", 512),

		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		TokenTTLMinutes: getEnvAsInt("TOKEN_TTL_MINUTES", 30),
		AuthRequired:    getEnvAsBool("AUTH_REQUIRED", false),

		SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", false),
		LogDirectory: getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=Local",
			c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDBName)
	}
	return c.SQLitePath
}

func (c *Config) FrameDirectory() string {
	return filepath.Join(c.OutputDirectory, "frames")
}

func (c *Config) VideoDirectory() string {
	return filepath.Join(c.OutputDirectory, "videos")
}

func (c *Config) HostedDirectory() string {
	return filepath.Join(c.OutputDirectory, "hosted")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
