package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Subtitle  SubtitleConfig  `mapstructure:"subtitle"`
	Player    PlayerConfig    `mapstructure:"player"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Translate TranslateConfig `mapstructure:"translate"`
}

type OutputConfig struct {
	Filename  string `mapstructure:"filename"`  // exported file name, "a.srt" by default
	Directory string `mapstructure:"directory"` // where the terminal editor writes exports
}

type SubtitleConfig struct {
	// how long the last cue stays on screen
	FinalCueDuration time.Duration `mapstructure:"final_cue_duration"`
}

type PlayerConfig struct {
	MPVPath     string `mapstructure:"mpv_path"`
	SocketDir   string `mapstructure:"socket_dir"`
	StartPaused bool   `mapstructure:"start_paused"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // log file for the terminal editor
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// settings for "cuetap translate"; API keys come from the environment
type TranslateConfig struct {
	Provider    string `mapstructure:"provider"` // gemini, openai or anthropic
	Model       string `mapstructure:"model"`    // empty picks the provider default
	BatchSize   int    `mapstructure:"batch_size"`
	Concurrency int    `mapstructure:"concurrency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.filename", "a.srt")
	v.SetDefault("output.directory", ".")
	v.SetDefault("subtitle.final_cue_duration", "5s")
	v.SetDefault("player.mpv_path", "")
	v.SetDefault("player.socket_dir", "")
	v.SetDefault("player.start_paused", true)
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", defaultLogFile())
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 7)
	v.SetDefault("logging.compress", false)
	v.SetDefault("translate.provider", "gemini")
	v.SetDefault("translate.model", "")
	v.SetDefault("translate.batch_size", 50)
	v.SetDefault("translate.concurrency", 3)
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cuetap", "cuetap.log")
}

// Load reads configPath, or cuetap.yaml from . and $HOME/.cuetap when empty.
// A missing default file is not an error; every key has a default and can
// be overridden with CUETAP_<SECTION>_<KEY>.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("cuetap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cuetap")
	}

	v.SetEnvPrefix("CUETAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Output.Filename) == "" {
		return fmt.Errorf("output.filename must not be empty")
	}
	if strings.ContainsAny(cfg.Output.Filename, `/\`) {
		return fmt.Errorf("output.filename %q must be a bare file name", cfg.Output.Filename)
	}
	if cfg.Subtitle.FinalCueDuration <= 0 {
		return fmt.Errorf(
			"subtitle.final_cue_duration must be positive, got %v",
			cfg.Subtitle.FinalCueDuration,
		)
	}
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	switch cfg.Translate.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("translate.provider %q must be gemini, openai or anthropic", cfg.Translate.Provider)
	}
	if cfg.Translate.BatchSize <= 0 || cfg.Translate.Concurrency <= 0 {
		return fmt.Errorf("translate.batch_size and translate.concurrency must be positive")
	}
	return nil
}
