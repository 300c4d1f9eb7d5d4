package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every runtime setting for the analysis pipeline
type Config struct {
	DatabaseURL string
	Env         string

	// Blob storage
	StorageProvider    string // "s3" or "local"
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Bucket           string
	LocalStorageDir    string

	// Weather provider
	KMAServiceKey   string
	WeatherLocation string

	// Analysis
	TempDir      string
	ModelSeed    int64
	GapFillValue float64

	// Scheduler
	ScheduleSpec   string
	StaleAfterDays int
}

// LoadConfig reads configuration from the environment, .env file included
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Env:                os.Getenv("ENV"),
		StorageProvider:    os.Getenv("STORAGE_PROVIDER"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		LocalStorageDir:    os.Getenv("LOCAL_STORAGE_DIR"),
		KMAServiceKey:      os.Getenv("KMA_SERVICE_KEY"),
		WeatherLocation:    os.Getenv("WEATHER_LOCATION"),
		TempDir:            os.Getenv("TEMP_DIR"),
		ScheduleSpec:       os.Getenv("SCHEDULE_SPEC"),
		ModelSeed:          envInt64("MODEL_SEED", 42),
		GapFillValue:       envFloat("GAP_FILL_VALUE", 1000),
		StaleAfterDays:     int(envInt64("STALE_AFTER_DAYS", 7)),
	}

	// Default values
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.StorageProvider == "" {
		cfg.StorageProvider = "s3"
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "ap-northeast-2"
	}
	if cfg.WeatherLocation == "" {
		cfg.WeatherLocation = "서울"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = "temp_files"
	}
	if cfg.ScheduleSpec == "" {
		cfg.ScheduleSpec = "0 0 3 * * *" // daily at 03:00
	}

	return cfg
}

func envInt64(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return v
}
