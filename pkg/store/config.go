package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config carries the runtime settings for the store and the detail fetcher.
type Config interface {
	Path() string
	FetchLatency() time.Duration
	Debounce() time.Duration
	FetchWorkers() int
	LogFile() string
}

// LoadConfig reads .tasks(.yaml) from $TASKS_CONFIG_PATH, the working
// directory or $HOME, then lets TASKS_* environment variables override it.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.tasks.db")
	v.SetDefault("fetch_latency", "200ms")
	v.SetDefault("debounce", "100ms")
	v.SetDefault("fetch_workers", 4)
	v.SetDefault("log_file", "")
	v.SetConfigName(".tasks") // .yaml is implicit
	v.SetEnvPrefix("TASKS")
	v.AutomaticEnv()

	if override := os.Getenv("TASKS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("expand path %q: %w", v.GetString("path"), err)
	}
	logFile, err := homedir.Expand(v.GetString("log_file"))
	if err != nil {
		return nil, fmt.Errorf("expand log_file %q: %w", v.GetString("log_file"), err)
	}

	cfg := &fileConfig{
		DBPath:  path,
		Latency: v.GetDuration("fetch_latency"),
		Delay:   v.GetDuration("debounce"),
		Workers: v.GetInt("fetch_workers"),
		LogPath: logFile,
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

type fileConfig struct {
	DBPath  string        `json:"path"`
	Latency time.Duration `json:"fetch_latency"`
	Delay   time.Duration `json:"debounce"`
	Workers int           `json:"fetch_workers"`
	LogPath string        `json:"log_file"`
}

func (f *fileConfig) Path() string                { return f.DBPath }
func (f *fileConfig) FetchLatency() time.Duration { return f.Latency }
func (f *fileConfig) Debounce() time.Duration     { return f.Delay }
func (f *fileConfig) FetchWorkers() int           { return f.Workers }
func (f *fileConfig) LogFile() string             { return f.LogPath }

// Load opens and initializes the database described by cfg, loading the
// configuration first when cfg is nil.
func Load(ctx context.Context, cfg Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	db, err := Open(cfg.Path(), opts...)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
