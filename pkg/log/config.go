package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

var (
	validLevels  = []string{"debug", "info", "warn", "error", "fatal"}
	validFormats = []string{"json", "console"}
)

// Settings is the part of the service configuration the logger reads.
type Settings interface {
	Level() string
	Format() string
	OutputPath() string
	MaxFileSizeMB() int
	MaxFileAgeDays() int
	MaxBackupFiles() int
	IsCompressEnabled() bool
}

type Config struct {
	Level       string
	Format      string
	Environment string
	ServiceName string
	Version     string

	// OutputPath is stdout, stderr or a file rotated by Rotation.
	OutputPath string
	Rotation   Rotation

	DisableCaller     bool
	DisableStacktrace bool
	Sampling          *Sampling
}

type Rotation struct {
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
}

type Sampling struct {
	Initial    int
	Thereafter int
	Tick       time.Duration
}

// NewConfig builds the logger configuration of the API server. In production
// repeated entries are sampled and caller annotations are dropped.
func NewConfig(serviceName, version, environment string, s Settings) Config {
	cfg := Config{
		Level:       strings.ToLower(s.Level()),
		Format:      strings.ToLower(s.Format()),
		Environment: environment,
		ServiceName: serviceName,
		Version:     version,
		OutputPath:  s.OutputPath(),
		Rotation: Rotation{
			MaxSizeMB:  s.MaxFileSizeMB(),
			MaxAgeDays: s.MaxFileAgeDays(),
			MaxBackups: s.MaxBackupFiles(),
			Compress:   s.IsCompressEnabled(),
		},
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "stdout"
	}
	if environment == "production" {
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
		cfg.Sampling = &Sampling{Initial: 100, Thereafter: 100}
	}
	return cfg
}

func (c Config) Validate() error {
	if !lo.Contains(validLevels, strings.ToLower(c.Level)) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Level, strings.Join(validLevels, ", "))
	}
	if !lo.Contains(validFormats, strings.ToLower(c.Format)) {
		return fmt.Errorf("invalid log format %q, must be json or console", c.Format)
	}

	if c.OutputPath != "stdout" && c.OutputPath != "stderr" {
		if c.Rotation.MaxSizeMB <= 0 || c.Rotation.MaxAgeDays <= 0 {
			return fmt.Errorf("log file %s needs a positive max size and max age", c.OutputPath)
		}
		if c.Rotation.MaxBackups < 0 {
			return fmt.Errorf("log file %s: max backups must not be negative", c.OutputPath)
		}
	}

	if c.Sampling != nil && (c.Sampling.Initial <= 0 || c.Sampling.Thereafter <= 0) {
		return fmt.Errorf("sampling initial and thereafter must be greater than 0")
	}
	return nil
}
