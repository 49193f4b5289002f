package bsm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
)

const (
	DefaultEnvFile    = ".env"
	DefaultDateLayout = "2006-01-02"
	DefaultOutputDir  = "out"

	kEnvRate       = "BSM_RATE"
	kEnvDividend   = "BSM_DIVIDEND"
	kEnvWorkers    = "BSM_WORKERS"
	kEnvDateLayout = "BSM_DATE_LAYOUT"
	kEnvOutputDir  = "BSM_OUTPUT_DIR"
)

// Config carries the defaults the CLI falls back to when a flag is not set.
type Config struct {
	Rate       float64
	Dividend   float64
	Workers    int
	DateLayout string
	OutputDir  string
}

func NewDefaultConfig() *Config {
	return &Config{
		Rate:       0,
		Dividend:   0,
		Workers:    runtime.NumCPU(),
		DateLayout: DefaultDateLayout,
		OutputDir:  DefaultOutputDir,
	}
}

// LoadConfig loads envFile into the process environment and reads the BSM_*
// variables on top of the defaults. Variables already set in the environment
// win over the file. A missing default .env file is ignored; a missing file
// that was asked for explicitly is an error.
func LoadConfig(envFile string) (*Config, error) {
	path := envFile
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			msg := fmt.Sprintf("Loading env file %s failed with error=%s", path, err)
			glog.Error(msg)
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		glog.V(1).Infof("No %s file found, using environment only", path)
	}

	cfg := NewDefaultConfig()
	var err error
	if cfg.Rate, err = envFloat(kEnvRate, cfg.Rate); err != nil {
		return nil, err
	}
	if cfg.Dividend, err = envFloat(kEnvDividend, cfg.Dividend); err != nil {
		return nil, err
	}
	if cfg.Workers, err = envInt(kEnvWorkers, cfg.Workers); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", kEnvWorkers, cfg.Workers)
	}
	if value := os.Getenv(kEnvDateLayout); value != "" {
		cfg.DateLayout = value
	}
	if value := os.Getenv(kEnvOutputDir); value != "" {
		cfg.OutputDir = value
	}
	return cfg, nil
}

func envFloat(name string, fallback float64) (float64, error) {
	value := os.Getenv(name)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		msg := fmt.Sprintf("Parsing %s=%q failed with error=%s", name, value, err)
		glog.Error(msg)
		return 0, errors.New(msg)
	}
	return parsed, nil
}

func envInt(name string, fallback int) (int, error) {
	value := os.Getenv(name)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		msg := fmt.Sprintf("Parsing %s=%q failed with error=%s", name, value, err)
		glog.Error(msg)
		return 0, errors.New(msg)
	}
	return parsed, nil
}
