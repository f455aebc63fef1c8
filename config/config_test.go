package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config {
	return &config{
		AppCfg: appConfig{
			NameStr:                  "go-rbac-api",
			EnvironmentStr:           LocalEnv,
			TokenIssuerStr:           "go-rbac-api",
			AccessTokenExpiresInDur:  15 * time.Minute,
			AccessTokenSecretStr:     "access",
			RefreshTokenExpiresInDur: 24 * time.Hour,
			RefreshTokenSecretStr:    "refresh",
			PasswordHasherStr:        "hmac",
			PasswordHashSecretStr:    "pepper",
			RefreshCookieNameStr:     "refreshToken",
			RefreshCookieMaxAgeDur:   7 * 24 * time.Hour,
		},
		ServerCfg: serverConfig{
			HostStr:         "0.0.0.0",
			PortInt:         8080,
			ReadTimeoutDur:  10 * time.Second,
			WriteTimeoutDur: 10 * time.Second,
		},
		DatabaseCfg: databaseConfig{
			ProviderStr: ProviderMemory,
		},
		LoggerCfg: loggerConfig{
			LevelStr:          "info",
			FormatStr:         "json",
			OutputPathStr:     "stdout",
			MaxFileSizeMBInt:  100,
			MaxFileAgeDaysInt: 30,
		},
		MetricsCfg: metricsConfig{EnabledB: true, PathStr: "/metrics"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *config) {}},
		{
			name:    "unknown env",
			mutate:  func(c *config) { c.AppCfg.EnvironmentStr = "staging" },
			wantErr: "ENV=staging is invalid",
		},
		{
			name:    "access ttl not shorter than refresh",
			mutate:  func(c *config) { c.AppCfg.AccessTokenExpiresInDur = 48 * time.Hour },
			wantErr: "must be less than",
		},
		{
			name: "shared signing secret",
			mutate: func(c *config) {
				c.AppCfg.RefreshTokenSecretStr = c.AppCfg.AccessTokenSecretStr
			},
			wantErr: "must differ",
		},
		{
			name: "missing jwt secrets do not block startup",
			mutate: func(c *config) {
				c.AppCfg.AccessTokenSecretStr = ""
				c.AppCfg.RefreshTokenSecretStr = ""
			},
		},
		{
			name:    "hmac without secret",
			mutate:  func(c *config) { c.AppCfg.PasswordHashSecretStr = "" },
			wantErr: "PASSWORD_HASH_SECRET",
		},
		{
			name: "bcrypt without secret",
			mutate: func(c *config) {
				c.AppCfg.PasswordHasherStr = "bcrypt"
				c.AppCfg.PasswordHashSecretStr = ""
			},
		},
		{
			name:    "admin email without password",
			mutate:  func(c *config) { c.AppCfg.SysAdminEmailStr = "root@example.com" },
			wantErr: "must be set together",
		},
		{
			name:    "bad port",
			mutate:  func(c *config) { c.ServerCfg.PortInt = 70000 },
			wantErr: "port must be between",
		},
		{
			name:    "base path without slash",
			mutate:  func(c *config) { c.ServerCfg.BasePathStr = "api" },
			wantErr: "base_path",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *config) { c.DatabaseCfg.ProviderStr = "sqlite" },
			wantErr: "database provider",
		},
		{
			name: "mongo uri scheme",
			mutate: func(c *config) {
				c.DatabaseCfg.ProviderStr = ProviderMongo
				c.DatabaseCfg.MongoURIStr = "http://localhost"
				c.DatabaseCfg.MongoDatabaseStr = "rbac"
				c.DatabaseCfg.MongoTimeoutDur = 5 * time.Second
			},
			wantErr: "mongodb://",
		},
		{
			name: "postgres idle above open",
			mutate: func(c *config) {
				c.DatabaseCfg = databaseConfig{
					ProviderStr:        ProviderPostgres,
					HostStr:            "localhost",
					PortStr:            "5432",
					UserStr:            "postgres",
					NameStr:            "rbac",
					SSLModeStr:         "disable",
					MaxOpenConnsInt:    5,
					MaxIdleConnsInt:    10,
					ConnMaxLifetimeDur: 5 * time.Minute,
				}
			},
			wantErr: "max_idle_conns",
		},
		{
			name:    "log level",
			mutate:  func(c *config) { c.LoggerCfg.LevelStr = "verbose" },
			wantErr: "log level",
		},
		{
			name:    "metrics path",
			mutate:  func(c *config) { c.MetricsCfg.PathStr = "metrics" },
			wantErr: "metrics path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMissingSecrets(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, MissingSecrets(cfg.App()))

	cfg.AppCfg.RefreshTokenSecretStr = ""
	assert.Equal(t, []string{"JWT_REFRESH_SECRET"}, MissingSecrets(cfg.App()))

	cfg.AppCfg.AccessTokenSecretStr = ""
	assert.Equal(t, []string{"JWT_SECRET", "JWT_REFRESH_SECRET"}, MissingSecrets(cfg.App()))
}

func TestLoad(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("DATABASE_PROVIDER", ProviderMemory)
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("PASSWORD_HASH_SECRET", "pepper")
	t.Setenv("PORT", "9090")

	cfg, err := Load("config.yml")
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, ProviderMemory, cfg.Database().Provider())
	assert.Equal(t, 9090, cfg.Server().Port())
	assert.Equal(t, 15*time.Minute, cfg.App().AccessTokenExpiresIn())
	assert.Equal(t, 24*time.Hour, cfg.App().RefreshTokenExpiresIn())
	assert.Equal(t, 7*24*time.Hour, cfg.App().RefreshCookieMaxAge())
	assert.Equal(t, "access", cfg.App().AccessTokenSecret())
	assert.Equal(t, 10*time.Second, cfg.Server().ReadTimeout())
	assert.Same(t, cfg, MustGet())
}
