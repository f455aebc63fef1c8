package config

import (
	"time"
)

const (
	LocalEnv       = "local"
	DevelopmentEnv = "dev"
	ProductionEnv  = "prod"
)

const (
	ProviderMongo    = "mongo"
	ProviderPostgres = "postgres"
	ProviderMemory   = "memory"
)

type Config interface {
	App() AppConfig
	Server() ServerConfig
	Database() DatabaseConfig
	Logger() LoggerConfig
	Metrics() MetricsConfig
}

type AppConfig interface {
	Name() string
	Version() string
	Environment() string
	IsProduction() bool
	AccessTokenExpiresIn() time.Duration
	AccessTokenSecret() string
	RefreshTokenExpiresIn() time.Duration
	RefreshTokenSecret() string
	TokenIssuer() string
	PasswordHasher() string
	PasswordHashSecret() string
	RefreshCookieName() string
	RefreshCookieMaxAge() time.Duration
	RefreshCookieSecure() bool
	SignupRolesEnabled() bool
	SystemAdminEmail() string
	SystemAdminPassword() string
}

type ServerConfig interface {
	Host() string
	Port() int
	BasePath() string
	ReadTimeout() time.Duration
	WriteTimeout() time.Duration
	IdleTimeout() time.Duration
	MaxHeaderBytes() int
	AllowedOrigins() []string
	AllowedHosts() []string
}

type DatabaseConfig interface {
	Provider() string
	MongoURI() string
	MongoDatabase() string
	MongoTimeout() time.Duration
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	LogLevel() string
	EnableLog() bool
}

type LoggerConfig interface {
	Level() string
	Format() string
	OutputPath() string
	MaxFileSizeMB() int
	MaxFileAgeDays() int
	MaxBackupFiles() int
	IsCompressEnabled() bool
}

type MetricsConfig interface {
	Enabled() bool
	Path() string
}

// config is the cleanenv target. Each section is exposed through a read-only interface.
type config struct {
	AppCfg      appConfig      `yaml:"app"`
	ServerCfg   serverConfig   `yaml:"server"`
	DatabaseCfg databaseConfig `yaml:"database"`
	LoggerCfg   loggerConfig   `yaml:"logger"`
	MetricsCfg  metricsConfig  `yaml:"metrics"`
}

func (c *config) App() AppConfig           { return &c.AppCfg }
func (c *config) Server() ServerConfig     { return &c.ServerCfg }
func (c *config) Database() DatabaseConfig { return &c.DatabaseCfg }
func (c *config) Logger() LoggerConfig     { return &c.LoggerCfg }
func (c *config) Metrics() MetricsConfig   { return &c.MetricsCfg }

type appConfig struct {
	NameStr        string `yaml:"name" env-default:"go-rbac-api"`
	VersionStr     string `yaml:"version" env-default:"0.1.0"`
	EnvironmentStr string `env:"ENV" env-default:"local"`

	TokenIssuerStr string `yaml:"token_issuer" env-default:"go-rbac-api"`

	AccessTokenExpiresInDur time.Duration `yaml:"access_token_expires_in" env-default:"15m"`
	AccessTokenSecretStr    string        `env:"JWT_SECRET"`

	RefreshTokenExpiresInDur time.Duration `yaml:"refresh_token_expires_in" env-default:"24h"`
	RefreshTokenSecretStr    string        `env:"JWT_REFRESH_SECRET"`

	PasswordHasherStr     string `yaml:"password_hasher" env-default:"hmac"`
	PasswordHashSecretStr string `env:"PASSWORD_HASH_SECRET"`

	RefreshCookieNameStr   string        `yaml:"refresh_cookie_name" env-default:"refreshToken"`
	RefreshCookieMaxAgeDur time.Duration `yaml:"refresh_cookie_max_age" env-default:"168h"`
	RefreshCookieSecureB   bool          `yaml:"refresh_cookie_secure" env-default:"false"`

	SignupRolesEnabledB bool `yaml:"signup_roles_enabled" env-default:"true"`

	SysAdminEmailStr    string `env:"SYSTEM_ADMIN_EMAIL" env-default:""`
	SysAdminPasswordStr string `env:"SYSTEM_ADMIN_PASSWORD" env-default:""`
}

func (c *appConfig) Name() string                         { return c.NameStr }
func (c *appConfig) Version() string                      { return c.VersionStr }
func (c *appConfig) Environment() string                  { return c.EnvironmentStr }
func (c *appConfig) IsProduction() bool                   { return c.EnvironmentStr == ProductionEnv }
func (c *appConfig) AccessTokenExpiresIn() time.Duration  { return c.AccessTokenExpiresInDur }
func (c *appConfig) AccessTokenSecret() string            { return c.AccessTokenSecretStr }
func (c *appConfig) RefreshTokenExpiresIn() time.Duration { return c.RefreshTokenExpiresInDur }
func (c *appConfig) RefreshTokenSecret() string           { return c.RefreshTokenSecretStr }
func (c *appConfig) TokenIssuer() string                  { return c.TokenIssuerStr }
func (c *appConfig) PasswordHasher() string               { return c.PasswordHasherStr }
func (c *appConfig) PasswordHashSecret() string           { return c.PasswordHashSecretStr }
func (c *appConfig) RefreshCookieName() string            { return c.RefreshCookieNameStr }
func (c *appConfig) RefreshCookieMaxAge() time.Duration   { return c.RefreshCookieMaxAgeDur }
func (c *appConfig) RefreshCookieSecure() bool            { return c.RefreshCookieSecureB }
func (c *appConfig) SignupRolesEnabled() bool             { return c.SignupRolesEnabledB }
func (c *appConfig) SystemAdminEmail() string             { return c.SysAdminEmailStr }
func (c *appConfig) SystemAdminPassword() string          { return c.SysAdminPasswordStr }

type serverConfig struct {
	HostStr           string        `yaml:"host" env-default:"0.0.0.0"`
	PortInt           int           `yaml:"port" env:"PORT" env-default:"8080"`
	BasePathStr       string        `yaml:"base_path" env-default:""`
	ReadTimeoutDur    time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeoutDur   time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeoutDur    time.Duration `yaml:"idle_timeout" env-default:"120s"`
	MaxHeaderBytesInt int           `yaml:"max_header_bytes" env-default:"1048576"` // 1MB
	AllowedOriginsArr []string      `yaml:"allowed_origins"`
	AllowedHostsArr   []string      `yaml:"allowed_hosts"`
}

func (s *serverConfig) Host() string                { return s.HostStr }
func (s *serverConfig) Port() int                   { return s.PortInt }
func (s *serverConfig) BasePath() string            { return s.BasePathStr }
func (s *serverConfig) ReadTimeout() time.Duration  { return s.ReadTimeoutDur }
func (s *serverConfig) WriteTimeout() time.Duration { return s.WriteTimeoutDur }
func (s *serverConfig) IdleTimeout() time.Duration  { return s.IdleTimeoutDur }
func (s *serverConfig) MaxHeaderBytes() int         { return s.MaxHeaderBytesInt }
func (s *serverConfig) AllowedOrigins() []string    { return s.AllowedOriginsArr }
func (s *serverConfig) AllowedHosts() []string      { return s.AllowedHostsArr }

type databaseConfig struct {
	ProviderStr        string        `yaml:"provider" env:"DATABASE_PROVIDER" env-default:"mongo"`
	MongoURIStr        string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabaseStr   string        `env:"MONGO_DATABASE" env-default:"rbac"`
	MongoTimeoutDur    time.Duration `yaml:"mongo_timeout" env-default:"5s"`
	HostStr            string        `env:"POSTGRES_HOST" env-default:"localhost"`
	PortStr            string        `env:"POSTGRES_PORT" env-default:"5432"`
	UserStr            string        `env:"POSTGRES_USER" env-default:"postgres"`
	PasswordStr        string        `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	NameStr            string        `env:"POSTGRES_DBNAME" env-default:"postgres"`
	SSLModeStr         string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	MaxOpenConnsInt    int           `yaml:"max_open_conns" env-default:"25"`
	MaxIdleConnsInt    int           `yaml:"max_idle_conns" env-default:"10"`
	ConnMaxLifetimeDur time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
	EnableLoggingBool  bool          `yaml:"enable_logging" env-default:"false"`
	LogLevelStr        string        `yaml:"log_level" env-default:"warn"`
}

func (d *databaseConfig) Provider() string               { return d.ProviderStr }
func (d *databaseConfig) MongoURI() string               { return d.MongoURIStr }
func (d *databaseConfig) MongoDatabase() string          { return d.MongoDatabaseStr }
func (d *databaseConfig) MongoTimeout() time.Duration    { return d.MongoTimeoutDur }
func (d *databaseConfig) Host() string                   { return d.HostStr }
func (d *databaseConfig) Port() string                   { return d.PortStr }
func (d *databaseConfig) User() string                   { return d.UserStr }
func (d *databaseConfig) Password() string               { return d.PasswordStr }
func (d *databaseConfig) Name() string                   { return d.NameStr }
func (d *databaseConfig) SSLMode() string                { return d.SSLModeStr }
func (d *databaseConfig) MaxOpenConns() int              { return d.MaxOpenConnsInt }
func (d *databaseConfig) MaxIdleConns() int              { return d.MaxIdleConnsInt }
func (d *databaseConfig) ConnMaxLifetime() time.Duration { return d.ConnMaxLifetimeDur }
func (d *databaseConfig) EnableLog() bool                { return d.EnableLoggingBool }
func (d *databaseConfig) LogLevel() string               { return d.LogLevelStr }

type loggerConfig struct {
	LevelStr          string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	FormatStr         string `yaml:"format" env-default:"json"`
	OutputPathStr     string `yaml:"output_path" env-default:"stdout"`
	MaxFileSizeMBInt  int    `yaml:"max_file_size_mb" env-default:"100"`
	MaxFileAgeDaysInt int    `yaml:"max_file_age_days" env-default:"30"`
	MaxBackupFilesInt int    `yaml:"max_backup_files" env-default:"10"`
	EnableCompressed  bool   `yaml:"enable_compressed" env-default:"true"`
}

func (l *loggerConfig) Level() string           { return l.LevelStr }
func (l *loggerConfig) Format() string          { return l.FormatStr }
func (l *loggerConfig) OutputPath() string      { return l.OutputPathStr }
func (l *loggerConfig) MaxFileSizeMB() int      { return l.MaxFileSizeMBInt }
func (l *loggerConfig) MaxFileAgeDays() int     { return l.MaxFileAgeDaysInt }
func (l *loggerConfig) MaxBackupFiles() int     { return l.MaxBackupFilesInt }
func (l *loggerConfig) IsCompressEnabled() bool { return l.EnableCompressed }

type metricsConfig struct {
	EnabledB bool   `yaml:"enabled" env-default:"true"`
	PathStr  string `yaml:"path" env-default:"/metrics"`
}

func (m *metricsConfig) Enabled() bool { return m.EnabledB }
func (m *metricsConfig) Path() string  { return m.PathStr }
