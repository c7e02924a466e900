package config

import (
	"os"
	"strconv"
)

type APIConfig struct {
	Port        string
	LogDir      string
	PostgresCfg PostgresConfig
	MinioCfg    MinioConfig
	DispatchCfg DispatchConfig
	CatalogCfg  CatalogConfig

	// Query/policy limits.
	MaxAOIAreaKm2       float64
	MaxJobTimeRangeDays int
	MaxRowLimit         int
	DefaultAOIThreshold int
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type MinioConfig struct {
	MinioURL       string
	MinioAccessKey string
	MinioSecretKey string
	MinioLocation  string
	MinioSecure    string
}

// DispatchConfig points at the CI workflow that runs out-of-process inference
// for a job.
type DispatchConfig struct {
	Token      string
	Owner      string
	Repo       string
	WorkflowID string
	Ref        string
}

// CatalogConfig holds credentials for the imagery catalog search service.
type CatalogConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Collection   string
}

func New() *APIConfig {
	return &APIConfig{
		Port:   getEnvOrDefault("PORT", "8080"),
		LogDir: getEnvOrDefault("LOG_DIR", "log"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "predictions"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		MinioCfg: MinioConfig{
			MinioURL:       getEnvOrDefault("MINIO_ENDPOINT", ""),
			MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", ""),
			MinioLocation:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:    getEnvOrDefault("MINIO_SECURE", "false"),
		},
		DispatchCfg: DispatchConfig{
			Token:      getEnvOrDefault("DISPATCH_TOKEN", ""),
			Owner:      getEnvOrDefault("DISPATCH_OWNER", "OceanEcoWatch"),
			Repo:       getEnvOrDefault("DISPATCH_REPO", "PlasticDetectionService"),
			WorkflowID: getEnvOrDefault("DISPATCH_WORKFLOW_ID", "job.yml"),
			Ref:        getEnvOrDefault("DISPATCH_REF", "main"),
		},
		CatalogCfg: CatalogConfig{
			BaseURL:      getEnvOrDefault("CATALOG_BASE_URL", "https://services.sentinel-hub.com/api/v1/catalog/1.0.0"),
			TokenURL:     getEnvOrDefault("CATALOG_TOKEN_URL", "https://services.sentinel-hub.com/oauth/token"),
			ClientID:     getEnvOrDefault("CATALOG_CLIENT_ID", ""),
			ClientSecret: getEnvOrDefault("CATALOG_CLIENT_SECRET", ""),
			Collection:   getEnvOrDefault("CATALOG_COLLECTION", "sentinel-2-l2a"),
		},
		MaxAOIAreaKm2:       getEnvFloatOrDefault("MAX_AOI_AREA_KM2", 100),
		MaxJobTimeRangeDays: getEnvIntOrDefault("MAX_JOB_TIME_RANGE_DAYS", 31),
		MaxRowLimit:         getEnvIntOrDefault("MAX_ROW_LIMIT", 1000),
		DefaultAOIThreshold: getEnvIntOrDefault("DEFAULT_AOI_THRESHOLD", 80),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
