package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

// Store backends accepted by STORE_BACKEND.
const (
	StoreMemory   = "memory"
	StoreJSONFile = "jsonfile"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreS3       = "s3"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	CORSAllowedOrigins         []string
	SwaggerEnabled             bool
	LogLevel                   logging.Level
	StoreBackend               string
	StoreJSONPath              string
	StoreSQLitePath            string
	DBURL                      string
	DBDisablePreparedBinary    bool
	StoreS3Bucket              string
	StoreS3Region              string
	StoreS3Endpoint            string
	StoreS3Key                 string
	StoreS3PathStyle           bool
	StoreS3AccessKeyID         string
	StoreS3SecretAccessKey     string
	StoreCircuitEnabled        bool
	StoreCircuitFailureCount   int
	StoreCircuitOpenTimeout    time.Duration
	StoreCircuitHalfOpenMaxReq int
	SeedEnabled                bool
	SeedFile                   string
	CacheEnabled               bool
	CacheTTL                   time.Duration
	AdminKeyEnabled            bool
	AdminKey                   string
	AvailabilityGating         bool
	NotifyEnabled              bool
	NotifyWebhookURL           string
	NotifyToken                string
	NotifyTimeout              time.Duration
	NotifyWorkers              int
	InviteBaseURL              string
	UptraceEnabled             bool
	UptraceDSN                 string
	PprofEnabled               bool
	PprofAddr                  string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	MetricsEnabled             bool
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    strings.TrimSpace(getEnv("APP_SERVICE_NAME", "frogcrew-api")),
		ServiceVersion: strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:       strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		SwaggerEnabled: swaggerEnabled,
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	corsDefault := "http://localhost:5173,http://127.0.0.1:5173"
	if appEnv == EnvProd {
		corsDefault = ""
	}
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", corsDefault))

	if cfg.ReadTimeout, err = time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	if cfg.WriteTimeout, err = time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	if err := loadStore(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadFeatures(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadNotify(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStore(cfg *Config) error {
	backend, err := parseStoreBackend(getEnv("STORE_BACKEND", StoreMemory))
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreJSONPath = strings.TrimSpace(getEnv("STORE_JSON_PATH", "data/frogcrew.json"))
	cfg.StoreSQLitePath = strings.TrimSpace(getEnv("STORE_SQLITE_PATH", "data/frogcrew.db"))
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))

	disablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = disablePreparedBinary

	cfg.StoreS3Bucket = strings.TrimSpace(getEnv("STORE_S3_BUCKET", ""))
	cfg.StoreS3Region = strings.TrimSpace(getEnv("STORE_S3_REGION", "us-east-1"))
	cfg.StoreS3Endpoint = strings.TrimSpace(getEnv("STORE_S3_ENDPOINT", ""))
	cfg.StoreS3Key = strings.TrimSpace(getEnv("STORE_S3_KEY", "frogcrew/roster.json"))
	cfg.StoreS3AccessKeyID = strings.TrimSpace(getEnv("STORE_S3_ACCESS_KEY_ID", ""))
	cfg.StoreS3SecretAccessKey = strings.TrimSpace(getEnv("STORE_S3_SECRET_ACCESS_KEY", ""))
	pathStyle, err := strconv.ParseBool(getEnv("STORE_S3_PATH_STYLE", "false"))
	if err != nil {
		return fmt.Errorf("parse STORE_S3_PATH_STYLE: %w", err)
	}
	cfg.StoreS3PathStyle = pathStyle

	switch backend {
	case StoreJSONFile:
		if cfg.StoreJSONPath == "" {
			return fmt.Errorf("STORE_JSON_PATH is required when STORE_BACKEND=%s", StoreJSONFile)
		}
	case StoreSQLite:
		if cfg.StoreSQLitePath == "" {
			return fmt.Errorf("STORE_SQLITE_PATH is required when STORE_BACKEND=%s", StoreSQLite)
		}
	case StorePostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when STORE_BACKEND=%s", StorePostgres)
		}
	case StoreS3:
		if cfg.StoreS3Bucket == "" {
			return fmt.Errorf("STORE_S3_BUCKET is required when STORE_BACKEND=%s", StoreS3)
		}
		if (cfg.StoreS3AccessKeyID == "") != (cfg.StoreS3SecretAccessKey == "") {
			return fmt.Errorf("STORE_S3_ACCESS_KEY_ID and STORE_S3_SECRET_ACCESS_KEY must be set together")
		}
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("STORE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse STORE_CIRCUIT_ENABLED: %w", err)
	}
	failureCount, err := getEnvAsInt("STORE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return fmt.Errorf("parse STORE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if failureCount < 1 {
		return fmt.Errorf("STORE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	openTimeout, err := time.ParseDuration(getEnv("STORE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return fmt.Errorf("parse STORE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if openTimeout <= 0 {
		return fmt.Errorf("STORE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	halfOpenMaxReq, err := getEnvAsInt("STORE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return fmt.Errorf("parse STORE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if halfOpenMaxReq < 1 {
		return fmt.Errorf("STORE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.StoreCircuitEnabled = circuitEnabled
	cfg.StoreCircuitFailureCount = failureCount
	cfg.StoreCircuitOpenTimeout = openTimeout
	cfg.StoreCircuitHalfOpenMaxReq = halfOpenMaxReq

	return nil
}

func loadFeatures(cfg *Config) error {
	seedEnabled, err := strconv.ParseBool(getEnv("SEED_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse SEED_ENABLED: %w", err)
	}
	cfg.SeedEnabled = seedEnabled
	cfg.SeedFile = strings.TrimSpace(getEnv("SEED_FILE", ""))

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	adminDefault := "false"
	if cfg.AppEnv == EnvProd {
		adminDefault = "true"
	}
	adminKeyEnabled, err := strconv.ParseBool(getEnv("ADMIN_KEY_ENABLED", adminDefault))
	if err != nil {
		return fmt.Errorf("parse ADMIN_KEY_ENABLED: %w", err)
	}
	cfg.AdminKeyEnabled = adminKeyEnabled
	cfg.AdminKey = strings.TrimSpace(getEnv("ADMIN_KEY", ""))
	if adminKeyEnabled && cfg.AdminKey == "" {
		return fmt.Errorf("ADMIN_KEY is required when ADMIN_KEY_ENABLED=true")
	}

	gating, err := strconv.ParseBool(getEnv("AVAILABILITY_GATING", "true"))
	if err != nil {
		return fmt.Errorf("parse AVAILABILITY_GATING: %w", err)
	}
	cfg.AvailabilityGating = gating

	return nil
}

func loadNotify(cfg *Config) error {
	notifyEnabled, err := strconv.ParseBool(getEnv("NOTIFY_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse NOTIFY_ENABLED: %w", err)
	}
	cfg.NotifyEnabled = notifyEnabled
	cfg.NotifyWebhookURL = strings.TrimSpace(getEnv("NOTIFY_WEBHOOK_URL", ""))
	cfg.NotifyToken = strings.TrimSpace(getEnv("NOTIFY_TOKEN", ""))
	if notifyEnabled && cfg.NotifyWebhookURL == "" {
		return fmt.Errorf("NOTIFY_WEBHOOK_URL is required when NOTIFY_ENABLED=true")
	}

	notifyTimeout, err := time.ParseDuration(getEnv("NOTIFY_TIMEOUT", "10s"))
	if err != nil {
		return fmt.Errorf("parse NOTIFY_TIMEOUT: %w", err)
	}
	if notifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be > 0")
	}
	cfg.NotifyTimeout = notifyTimeout

	workers, err := getEnvAsInt("NOTIFY_WORKERS", 4)
	if err != nil {
		return fmt.Errorf("parse NOTIFY_WORKERS: %w", err)
	}
	if workers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be >= 1")
	}
	cfg.NotifyWorkers = workers
	cfg.InviteBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("INVITE_BASE_URL", "http://localhost:5173/register")), "/")

	return nil
}

func loadObservability(cfg *Config) error {
	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = pprofAddr

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = pyroscopeServerAddress
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	cfg.MetricsEnabled = metricsEnabled

	return nil
}

func parseStoreBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StoreMemory, StoreJSONFile, StoreSQLite, StorePostgres, StoreS3:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_BACKEND %q: valid values are %s, %s, %s, %s, %s",
			v, StoreMemory, StoreJSONFile, StoreSQLite, StorePostgres, StoreS3)
	}
}

func parseLogLevel(v string) logging.Level {
	return logging.ParseLevel(v)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
