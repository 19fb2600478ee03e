package beatscan

import "github.com/rootsai/beatscan/internal/tempo"

type Config struct {
	DBPath   string
	TempDir  string
	Analysis tempo.Config
	Logger   Logger
	Storage  Storage
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithTempDir(dir string) Option {
	return func(c *Config) {
		c.TempDir = dir
	}
}

// WithAnalysisRate overrides the canonical analysis sample rate.
func WithAnalysisRate(rate int) Option {
	return func(c *Config) {
		c.Analysis.AnalysisRate = rate
	}
}

// WithAnalysisConfig replaces the whole pipeline configuration.
func WithAnalysisConfig(cfg tempo.Config) Option {
	return func(c *Config) {
		c.Analysis = cfg
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:   "beatscan.sqlite3",
		TempDir:  "/tmp",
		Analysis: tempo.DefaultConfig(),
	}
}
