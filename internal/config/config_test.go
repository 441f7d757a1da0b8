package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arcturial/clickatell/pkg/translate"
)

var configEnvVars = []string{
	"CLICKATELL_TRANSPORT", "CLICKATELL_USER", "CLICKATELL_PASSWORD", "CLICKATELL_API_ID",
	"CLICKATELL_TOKEN", "CLICKATELL_SECURE", "CLICKATELL_BASE_URL", "CLICKATELL_OUTPUT",
	"CLICKATELL_TIMEOUT", "CLICKATELL_RATE_LIMIT", "CLICKATELL_RULES_FILE",
	"SMTP_ADDR", "SMTP_USERNAME", "SMTP_PASSWORD", "CLICKATELL_MAIL_FROM",
	"COMMS_URL", "SERVICE_NAME", "GATEWAY_SUBJECT", "GATEWAY_REQUEST_TIMEOUT",
	"DATABASE_URL", "RUN_MIGRATIONS", "MIGRATION_PATH",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "STATUS_CACHE_TTL",
	"CALLBACK_HTTP_ADDR", "HTTP_PORT", "HEALTH_CHECK_TIMEOUT", "CALLBACK_ALLOWED_IPS", "LOG_LEVEL",
}

// clearEnv unsets every config variable and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range configEnvVars {
		if old, ok := os.LookupEnv(env); ok {
			t.Cleanup(func() { os.Setenv(env, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(env) })
		}
		os.Unsetenv(env)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("config:config_test - unexpected error: %v", err)
	}

	if cfg.Transport != "http" {
		t.Errorf("config:config_test - Transport = %q, want http", cfg.Transport)
	}
	if !cfg.Secure {
		t.Error("config:config_test - expected Secure=true by default")
	}
	if cfg.Output != "json" {
		t.Errorf("config:config_test - Output = %q, want json", cfg.Output)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("config:config_test - Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("config:config_test - RateLimit = %v, want 0", cfg.RateLimit)
	}
	if cfg.COMMSURL != "nats://127.0.0.1:4222" {
		t.Errorf("config:config_test - COMMSURL = %q, want %q", cfg.COMMSURL, "nats://127.0.0.1:4222")
	}
	if cfg.COMMSName != "clickatell" {
		t.Errorf("config:config_test - COMMSName = %q, want clickatell", cfg.COMMSName)
	}
	if cfg.GatewaySubject != "clickatell.gateway.v1" {
		t.Errorf("config:config_test - GatewaySubject = %q", cfg.GatewaySubject)
	}
	if cfg.RequestTimeout != 25*time.Second {
		t.Errorf("config:config_test - RequestTimeout = %v, want 25s", cfg.RequestTimeout)
	}
	if cfg.RunMigrations {
		t.Error("config:config_test - expected RunMigrations=false by default")
	}
	if cfg.MigrationPath != "migrations" {
		t.Errorf("config:config_test - MigrationPath = %q, want %q", cfg.MigrationPath, "migrations")
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 0 {
		t.Errorf("config:config_test - redis = %q/%d, unexpected default", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.StatusCacheTTL != 24*time.Hour {
		t.Errorf("config:config_test - StatusCacheTTL = %v, want 24h", cfg.StatusCacheTTL)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("config:config_test - HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.HealthCheckTimeout != 5*time.Second {
		t.Errorf("config:config_test - HealthCheckTimeout = %v, want 5s", cfg.HealthCheckTimeout)
	}
	if len(cfg.CallbackAllowedIPs) != 0 {
		t.Errorf("config:config_test - CallbackAllowedIPs = %v, want empty", cfg.CallbackAllowedIPs)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("config:config_test - LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)

	overrides := map[string]string{
		"CLICKATELL_TRANSPORT":  "rest@^1",
		"CLICKATELL_TOKEN":      "tok",
		"CLICKATELL_SECURE":     "false",
		"CLICKATELL_OUTPUT":     "xml",
		"CLICKATELL_TIMEOUT":    "5s",
		"CLICKATELL_RATE_LIMIT": "2.5",
		"GATEWAY_SUBJECT":       "custom.gateway",
		"DATABASE_URL":          "postgres://test@localhost/test",
		"RUN_MIGRATIONS":        "true",
		"REDIS_DB":              "3",
		"STATUS_CACHE_TTL":      "1h",
		"HTTP_PORT":             "9090",
		"CALLBACK_ALLOWED_IPS":  "196.216.236.2,10.0.0.0/8",
		"LOG_LEVEL":             "debug",
	}
	for k, v := range overrides {
		os.Setenv(k, v)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("config:config_test - unexpected error: %v", err)
	}

	if cfg.Transport != "rest@^1" || cfg.Token != "tok" || cfg.Secure {
		t.Errorf("config:config_test - account overrides not applied: %+v", cfg)
	}
	if cfg.Output != "xml" || cfg.Timeout != 5*time.Second || cfg.RateLimit != 2.5 {
		t.Errorf("config:config_test - output overrides not applied: %+v", cfg)
	}
	if cfg.GatewaySubject != "custom.gateway" {
		t.Errorf("config:config_test - GatewaySubject = %q", cfg.GatewaySubject)
	}
	if cfg.DatabaseURL != "postgres://test@localhost/test" || !cfg.RunMigrations {
		t.Errorf("config:config_test - database overrides not applied: %+v", cfg)
	}
	if cfg.RedisDB != 3 || cfg.StatusCacheTTL != time.Hour {
		t.Errorf("config:config_test - redis overrides not applied: %+v", cfg)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("config:config_test - HTTPPort = %d, want 9090", cfg.HTTPPort)
	}
	if len(cfg.CallbackAllowedIPs) != 2 || cfg.CallbackAllowedIPs[1] != "10.0.0.0/8" {
		t.Errorf("config:config_test - CallbackAllowedIPs = %v", cfg.CallbackAllowedIPs)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("config:config_test - SlogLevel = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	content := "CLICKATELL_USER=fileuser\nCLICKATELL_API_ID=77\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("config:config_test - failed to write env file: %v", err)
	}
	os.Setenv("CLICKATELL_API_ID", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("config:config_test - unexpected error: %v", err)
	}
	if cfg.User != "fileuser" {
		t.Errorf("config:config_test - User = %q, want fileuser", cfg.User)
	}
	if cfg.APIID != "from-env" {
		t.Errorf("config:config_test - APIID = %q, environment should win", cfg.APIID)
	}
}

func TestLoadConfig_MissingEnvFileIgnored(t *testing.T) {
	clearEnv(t)

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("config:config_test - unexpected error: %v", err)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid HTTP_PORT", "HTTP_PORT", "not-a-number"},
		{"invalid CLICKATELL_TIMEOUT", "CLICKATELL_TIMEOUT", "bad"},
		{"invalid CLICKATELL_SECURE", "CLICKATELL_SECURE", "maybe"},
		{"invalid REDIS_DB", "REDIS_DB", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			os.Setenv(tt.key, tt.value)

			if _, err := LoadConfig(); err == nil {
				t.Errorf("config:config_test - expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestValidateForClient(t *testing.T) {
	legacy := Config{Transport: "http", User: "u", Password: "p", APIID: "1", Timeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"legacy complete", func(c *Config) {}, false},
		{"legacy missing api id", func(c *Config) { c.APIID = "" }, true},
		{"rest needs token", func(c *Config) { c.Transport = "rest@1" }, true},
		{"rest with token", func(c *Config) { c.Transport = "REST"; c.Token = "t" }, false},
		{"connect needs token", func(c *Config) { c.Transport = "connect" }, true},
		{"smtp needs relay", func(c *Config) { c.Transport = "smtp" }, true},
		{"smtp with relay", func(c *Config) { c.Transport = "smtp"; c.SMTPAddr = "localhost:25" }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := legacy
			tt.mutate(&c)
			err := c.ValidateForClient()
			if (err != nil) != tt.wantErr {
				t.Errorf("config:config_test - ValidateForClient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForServe(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{DatabaseURL: "postgres://localhost/test", RequestTimeout: 25 * time.Second, HealthCheckTimeout: 5 * time.Second, HTTPPort: 8080},
			wantErr: false,
		},
		{
			name:    "missing DATABASE_URL",
			cfg:     Config{RequestTimeout: 25 * time.Second, HealthCheckTimeout: 5 * time.Second, HTTPPort: 8080},
			wantErr: true,
		},
		{
			name:    "zero RequestTimeout",
			cfg:     Config{DatabaseURL: "postgres://localhost/test", HealthCheckTimeout: 5 * time.Second, HTTPPort: 8080},
			wantErr: true,
		},
		{
			name:    "zero HealthCheckTimeout",
			cfg:     Config{DatabaseURL: "postgres://localhost/test", RequestTimeout: 25 * time.Second, HTTPPort: 8080},
			wantErr: true,
		},
		{
			name:    "bad port without addr",
			cfg:     Config{DatabaseURL: "postgres://localhost/test", RequestTimeout: time.Second, HealthCheckTimeout: time.Second, HTTPPort: 70000},
			wantErr: true,
		},
		{
			name:    "addr overrides port",
			cfg:     Config{DatabaseURL: "postgres://localhost/test", RequestTimeout: time.Second, HealthCheckTimeout: time.Second, HTTPAddr: "0.0.0.0:8081"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateForServe()
			if (err != nil) != tt.wantErr {
				t.Errorf("config:config_test - ValidateForServe() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForDB(t *testing.T) {
	if err := (&Config{DatabaseURL: "postgres://localhost/test"}).ValidateForDB(); err != nil {
		t.Errorf("config:config_test - unexpected error: %v", err)
	}
	if err := (&Config{}).ValidateForDB(); err == nil {
		t.Error("config:config_test - expected error for missing DATABASE_URL")
	}
}

func TestClientOptions(t *testing.T) {
	clearEnv(t)

	cfg := &Config{
		Transport: "xml", User: "u", Password: "p", APIID: "1",
		Secure: true, Output: "xml", Timeout: time.Second, SMTPAddr: "localhost:25",
		RulesFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}
	opts, err := cfg.ClientOptions()
	if err != nil {
		t.Fatalf("config:config_test - unexpected error: %v", err)
	}
	if opts.Transport != "xml" || opts.Identity.APIID != "1" || !opts.Secure {
		t.Errorf("config:config_test - unexpected options %+v", opts)
	}
	if _, ok := opts.Translator.(translate.XML); !ok {
		t.Errorf("config:config_test - Translator = %T, want translate.XML", opts.Translator)
	}
	if opts.Mailer == nil || opts.Validator == nil {
		t.Error("config:config_test - expected mailer and validator")
	}
}
