package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var (
	sslModes       = []string{"disable", "require", "verify-ca", "verify-full"}
	gormLogLevels  = []string{"silent", "error", "warn", "info"}
	logLevels      = []string{"debug", "info", "warn", "error", "fatal"}
	passwordHashes = []string{"hmac", "bcrypt"}
)

// check is one configuration rule; msg is reported when ok is false.
type check struct {
	ok  bool
	msg string
}

func firstFailed(checks ...check) error {
	if c, found := lo.Find(checks, func(c check) bool { return !c.ok }); found {
		return errors.New(c.msg)
	}
	return nil
}

// Validate reports the first invalid setting of each section, prefixed by the section name.
func Validate(cfg Config) error {
	sections := []struct {
		name string
		err  error
	}{
		{"app", validateApp(cfg.App())},
		{"server", validateServer(cfg.Server())},
		{"database", validateDatabase(cfg.Database())},
		{"logger", validateLogger(cfg.Logger())},
		{"metrics", validateMetrics(cfg.Metrics())},
	}
	for _, s := range sections {
		if s.err != nil {
			return fmt.Errorf("%s config validation failed: %w", s.name, s.err)
		}
	}
	return nil
}

// MissingSecrets lists signing secrets that are unset. The service still starts,
// but every request needing one of them fails with a configuration error.
func MissingSecrets(cfg AppConfig) []string {
	var missing []string
	if cfg.AccessTokenSecret() == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.RefreshTokenSecret() == "" {
		missing = append(missing, "JWT_REFRESH_SECRET")
	}
	return missing
}

func validateApp(cfg AppConfig) error {
	env := cfg.Environment()
	adminEmail, adminPassword := cfg.SystemAdminEmail(), cfg.SystemAdminPassword()
	return firstFailed(
		check{lo.Contains([]string{LocalEnv, DevelopmentEnv, ProductionEnv}, env),
			fmt.Sprintf("ENV=%s is invalid, only accept `%s`, `%s`, `%s`", env, LocalEnv, DevelopmentEnv, ProductionEnv)},
		check{cfg.TokenIssuer() != "", "token_issuer is required"},
		check{cfg.AccessTokenExpiresIn() > 0, "access_token_expires_in must be positive"},
		check{cfg.RefreshTokenExpiresIn() > 0, "refresh_token_expires_in must be positive"},
		check{cfg.AccessTokenExpiresIn() < cfg.RefreshTokenExpiresIn(), "access_token_expires_in must be less than refresh_token_expires_in"},
		check{cfg.AccessTokenSecret() == "" || cfg.AccessTokenSecret() != cfg.RefreshTokenSecret(), "JWT_SECRET and JWT_REFRESH_SECRET must differ"},
		check{lo.Contains(passwordHashes, cfg.PasswordHasher()), "password_hasher must be one of: " + strings.Join(passwordHashes, ", ")},
		check{cfg.PasswordHasher() != "hmac" || cfg.PasswordHashSecret() != "",
			"password hash secret is required, please set PASSWORD_HASH_SECRET env variable"},
		check{cfg.RefreshCookieName() != "", "refresh_cookie_name is required"},
		check{cfg.RefreshCookieMaxAge() > 0, "refresh_cookie_max_age must be positive"},
		check{(adminEmail == "") == (adminPassword == ""), "SYSTEM_ADMIN_EMAIL and SYSTEM_ADMIN_PASSWORD must be set together"},
		check{adminPassword == "" || len(adminPassword) >= 8, "SYSTEM_ADMIN_PASSWORD must be at least 8 characters"},
	)
}

func validateServer(cfg ServerConfig) error {
	host := cfg.Host()
	return firstFailed(
		check{host != "", "host is required"},
		check{host == "0.0.0.0" || host == "localhost" || net.ParseIP(host) != nil, "host must be a valid IP address or 'localhost'"},
		check{validPort(cfg.Port()), "port must be between 1 and 65535"},
		check{cfg.BasePath() == "" || strings.HasPrefix(cfg.BasePath(), "/"), "base_path must start with '/'"},
		check{cfg.ReadTimeout() > 0, "read_timeout must be positive"},
		check{cfg.WriteTimeout() > 0, "write_timeout must be positive"},
	)
}

func validateDatabase(cfg DatabaseConfig) error {
	switch cfg.Provider() {
	case ProviderMemory:
		return nil
	case ProviderMongo:
		uri := cfg.MongoURI()
		return firstFailed(
			check{strings.HasPrefix(uri, "mongodb://") || strings.HasPrefix(uri, "mongodb+srv://"),
				"mongo uri must start with mongodb:// or mongodb+srv://"},
			check{cfg.MongoDatabase() != "", "mongo database name is required"},
			check{cfg.MongoTimeout() > 0, "mongo_timeout must be positive"},
		)
	case ProviderPostgres:
		port, err := strconv.Atoi(cfg.Port())
		if err != nil {
			return fmt.Errorf("database port must be numeric: %w", err)
		}
		return firstFailed(
			check{cfg.Host() != "", "database host is required"},
			check{validPort(port), "database port must be between 1 and 65535"},
			check{cfg.User() != "", "database user is required"},
			check{cfg.Name() != "", "database name is required"},
			check{cfg.MaxOpenConns() > 0, "max_open_conns must be positive"},
			check{cfg.MaxIdleConns() > 0, "max_idle_conns must be positive"},
			check{cfg.MaxIdleConns() <= cfg.MaxOpenConns(), "max_idle_conns cannot be greater than max_open_conns"},
			check{cfg.ConnMaxLifetime() > 0, "conn_max_lifetime must be positive"},
			check{lo.Contains(sslModes, cfg.SSLMode()), "ssl_mode must be one of: " + strings.Join(sslModes, ", ")},
			check{!cfg.EnableLog() || lo.Contains(gormLogLevels, cfg.LogLevel()),
				"database log_level must be one of: " + strings.Join(gormLogLevels, ", ")},
		)
	default:
		return fmt.Errorf("database provider must be one of: %s, %s, %s", ProviderMongo, ProviderPostgres, ProviderMemory)
	}
}

func validateLogger(cfg LoggerConfig) error {
	return firstFailed(
		check{lo.Contains(logLevels, cfg.Level()), "log level must be one of: " + strings.Join(logLevels, ", ")},
		check{cfg.Format() == "json" || cfg.Format() == "console", "log format must be 'json' or 'console'"},
		check{cfg.OutputPath() != "", "output_path is required"},
		check{cfg.MaxFileSizeMB() > 0, "max_file_size_mb must be positive"},
		check{cfg.MaxFileAgeDays() > 0, "max_file_age_days must be positive"},
		check{cfg.MaxBackupFiles() >= 0, "max_backup_files cannot be negative"},
	)
}

func validateMetrics(cfg MetricsConfig) error {
	return firstFailed(
		check{!cfg.Enabled() || strings.HasPrefix(cfg.Path(), "/"), "metrics path must start with '/'"},
	)
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}
