package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger and requires admin key", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "")
		t.Setenv("ADMIN_KEY_ENABLED", "")
		t.Setenv("ADMIN_KEY", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when prod enables the admin key without ADMIN_KEY")
		}

		t.Setenv("ADMIN_KEY", "s3cret")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
		if !cfg.AdminKeyEnabled || cfg.AdminKey != "s3cret" {
			t.Fatalf("expected admin key guard in prod, got enabled=%v", cfg.AdminKeyEnabled)
		}
		if len(cfg.CORSAllowedOrigins) != 0 {
			t.Fatalf("expected no default CORS origins in prod, got %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SWAGGER_ENABLED", "")
		t.Setenv("ADMIN_KEY_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
		if cfg.AdminKeyEnabled {
			t.Fatalf("expected admin key guard off in dev by default")
		}
	})
}

func TestLoad_StoreBackend(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	tests := []struct {
		name    string
		env     map[string]string
		want    string
		wantErr bool
	}{
		{name: "default memory", env: map[string]string{"STORE_BACKEND": ""}, want: StoreMemory},
		{name: "case insensitive", env: map[string]string{"STORE_BACKEND": " JSONFile "}, want: StoreJSONFile},
		{name: "unknown", env: map[string]string{"STORE_BACKEND": "redis"}, wantErr: true},
		{name: "postgres needs url", env: map[string]string{"STORE_BACKEND": "postgres", "DB_URL": ""}, wantErr: true},
		{name: "postgres", env: map[string]string{"STORE_BACKEND": "postgres", "DB_URL": "postgres://crew@localhost/frogcrew"}, want: StorePostgres},
		{name: "s3 needs bucket", env: map[string]string{"STORE_BACKEND": "s3", "STORE_S3_BUCKET": ""}, wantErr: true},
		{name: "s3 half credentials", env: map[string]string{"STORE_BACKEND": "s3", "STORE_S3_BUCKET": "crew", "STORE_S3_ACCESS_KEY_ID": "AKIA", "STORE_S3_SECRET_ACCESS_KEY": ""}, wantErr: true},
		{name: "s3", env: map[string]string{"STORE_BACKEND": "s3", "STORE_S3_BUCKET": "crew", "STORE_S3_ACCESS_KEY_ID": "", "STORE_S3_SECRET_ACCESS_KEY": ""}, want: StoreS3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got backend %q", cfg.StoreBackend)
				}
				return
			}
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if cfg.StoreBackend != tt.want {
				t.Fatalf("StoreBackend=%q want %q", cfg.StoreBackend, tt.want)
			}
		})
	}
}

func TestLoad_StoreCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STORE_CIRCUIT_ENABLED", "")
		t.Setenv("STORE_CIRCUIT_FAILURE_COUNT", "")
		t.Setenv("STORE_CIRCUIT_OPEN_TIMEOUT", "")
		t.Setenv("STORE_CIRCUIT_HALF_OPEN_MAX_REQ", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.StoreCircuitEnabled || cfg.StoreCircuitFailureCount != 5 ||
			cfg.StoreCircuitOpenTimeout != 15*time.Second || cfg.StoreCircuitHalfOpenMaxReq != 2 {
			t.Fatalf("unexpected circuit defaults: %+v", cfg)
		}
	})

	t.Run("zero failure count", func(t *testing.T) {
		t.Setenv("STORE_CIRCUIT_FAILURE_COUNT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for STORE_CIRCUIT_FAILURE_COUNT=0")
		}
	})
}

func TestLoad_NotifyRequiresWebhookWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NOTIFY_ENABLED", "true")
	t.Setenv("NOTIFY_WEBHOOK_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when NOTIFY_ENABLED=true without NOTIFY_WEBHOOK_URL")
	}

	t.Setenv("NOTIFY_WEBHOOK_URL", "https://relay.example/hooks/invite")
	t.Setenv("NOTIFY_WORKERS", "8")
	t.Setenv("INVITE_BASE_URL", "https://crew.example/register/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NotifyWorkers != 8 {
		t.Fatalf("unexpected NotifyWorkers: %d", cfg.NotifyWorkers)
	}
	if cfg.InviteBaseURL != "https://crew.example/register" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.InviteBaseURL)
	}
}

func TestLoad_NotifyWorkersMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NOTIFY_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for NOTIFY_WORKERS=0")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "frogcrew-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "frogcrew-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://crew.frogcrew.example, http://localhost:5173 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
	}
	if cfg.CORSAllowedOrigins[0] != "https://crew.frogcrew.example" {
		t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
	}
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 30*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_InvalidBooleans(t *testing.T) {
	for _, key := range []string{
		"SWAGGER_ENABLED",
		"DB_DISABLE_PREPARED_BINARY_RESULT",
		"SEED_ENABLED",
		"AVAILABILITY_GATING",
		"METRICS_ENABLED",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, "not-bool")
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for invalid %s", key)
			}
		})
	}
}
