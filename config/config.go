package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultCapturesSubDir  = "captures"
	DefaultAnnotatedSubDir = "annotated"
	DefaultPreviewsSubDir  = "previews"
)

const (
	defaultCaptureQueueSize  = 100
	defaultNumCaptureWorkers = 2
	defaultDistanceThreshold = 50.0
	defaultScaleStep         = 1.1
	defaultMinNeighbors      = 5
	defaultMinFaceSize       = 60
	defaultCanonicalSize     = 200
	defaultRetentionMaxDays  = 7
	defaultPreviewMaxSize    = 300
)

type Config struct {
	// database path
	DatabasePath string

	// storage configuration
	StoragePath   string // primary root for stored images
	CapturesPath  string // full-calculated path for raw captures
	AnnotatedPath string // full-calculated path for annotated outputs
	PreviewsPath  string // full-calculated path for annotated previews

	// enrollment corpus (directory-of-directories, one subdirectory per identity)
	CorpusPath string

	// face detection settings (Haar cascade)
	CascadePath  string
	ScaleStep    float64
	MinNeighbors int
	MinFaceSize  int

	// recognition settings
	CanonicalSize     int
	DistanceThreshold float64
	AllowEmptyCorpus  bool

	// preview generation
	PreviewMaxSize int

	// worker settings
	CaptureQueueSize  int
	NumCaptureWorkers int

	// retention sweep
	RetentionMaxAgeDays int
	RetentionSchedule   string // cron expression, empty disables the scheduler

	// alert mail settings
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AlertFrom    string
	AlertTo      string
	PublicURL    string // base URL used for links in alert mail bodies

	// bcrypt hash guarding destructive endpoints; empty leaves them open
	AdminTokenHash string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "events.db")

	storage := getEnvOrDefault("STORAGE_PATH", filepath.Join(".", "storage"))
	absStorage, err := filepath.Abs(storage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for storage '%s': %w", storage, err)
	}

	capturesSubDir := getEnvOrDefault("CAPTURES_SUBDIR", DefaultCapturesSubDir)
	absCapturesPath := filepath.Join(absStorage, capturesSubDir)

	annotatedSubDir := getEnvOrDefault("ANNOTATED_SUBDIR", DefaultAnnotatedSubDir)
	absAnnotatedPath := filepath.Join(absStorage, annotatedSubDir)

	previewsSubDir := getEnvOrDefault("PREVIEWS_SUBDIR", DefaultPreviewsSubDir)
	absPreviewsPath := filepath.Join(absStorage, previewsSubDir)

	corpus := getEnvOrDefault("CORPUS_PATH", filepath.Join(".", "corpus"))
	absCorpus, err := filepath.Abs(corpus)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for corpus '%s': %w", corpus, err)
	}

	scaleStep := getEnvFloatOrDefault("FACE_SCALE_STEP", defaultScaleStep)
	if scaleStep <= 1.0 {
		log.Printf("Warning: FACE_SCALE_STEP must be greater than 1.0, got %g. Using default %g", scaleStep, defaultScaleStep)
		scaleStep = defaultScaleStep
	}

	cfg := Config{
		DatabasePath:        dbPath,
		StoragePath:         absStorage,
		CapturesPath:        absCapturesPath,
		AnnotatedPath:       absAnnotatedPath,
		PreviewsPath:        absPreviewsPath,
		CorpusPath:          absCorpus,
		CascadePath:         getEnvOrDefault("FACE_CASCADE_PATH", "./models/haarcascade_frontalface_default.xml"),
		ScaleStep:           scaleStep,
		MinNeighbors:        getEnvIntOrDefault("FACE_MIN_NEIGHBORS", defaultMinNeighbors),
		MinFaceSize:         getEnvIntOrDefault("FACE_MIN_SIZE", defaultMinFaceSize),
		CanonicalSize:       getEnvIntOrDefault("FACE_CANONICAL_SIZE", defaultCanonicalSize),
		DistanceThreshold:   getEnvFloatOrDefault("RECOGNITION_DISTANCE_THRESHOLD", defaultDistanceThreshold),
		AllowEmptyCorpus:    getEnvBoolOrDefault("ALLOW_EMPTY_CORPUS", false),
		PreviewMaxSize:      getEnvIntOrDefault("PREVIEW_MAX_SIZE", defaultPreviewMaxSize),
		CaptureQueueSize:    getEnvIntOrDefault("CAPTURE_QUEUE_SIZE", defaultCaptureQueueSize),
		NumCaptureWorkers:   getEnvIntOrDefault("NUM_CAPTURE_WORKERS", defaultNumCaptureWorkers),
		RetentionMaxAgeDays: getEnvIntOrDefault("RETENTION_MAX_AGE_DAYS", defaultRetentionMaxDays),
		RetentionSchedule:   getEnvOrDefault("RETENTION_SCHEDULE", "30 3 * * *"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		AlertFrom:           os.Getenv("ALERT_FROM"),
		AlertTo:             os.Getenv("ALERT_TO"),
		PublicURL:           getEnvOrDefault("PUBLIC_URL", "http://localhost:8080"),
		AdminTokenHash:      os.Getenv("ADMIN_TOKEN_HASH"),
	}

	return cfg, nil
}
