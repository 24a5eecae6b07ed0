// Package config loads parkour settings from the config file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-gl/mathgl/mgl64"
)

type (
	// Config holds all configuration settings
	Config struct {
		Messages    map[string]string `mapstructure:"messages"`
		Settings    map[string]bool   `mapstructure:"settings"`
		CoursesFile string            `mapstructure:"courses_file"`
		Server      ServerConfig      `mapstructure:"server"`
		Store       StoreConfig       `mapstructure:"store"`
		Materials   MaterialsConfig   `mapstructure:"materials"`
		Hooks       HooksConfig       `mapstructure:"hooks"`
		Log         LogConfig         `mapstructure:"log"`
		Display     DisplayConfig     `mapstructure:"display"`
		Spawn       []float64         `mapstructure:"spawn"`
		SpawnDelay  time.Duration     `mapstructure:"spawn_delay"`
	}

	// ServerConfig holds HTTP and WebSocket settings
	ServerConfig struct {
		Addr      string  `mapstructure:"addr"`
		JWTSecret string  `mapstructure:"jwt_secret"`
		JoinRate  float64 `mapstructure:"join_rate"`
		JoinBurst int     `mapstructure:"join_burst"`
		ReadLimit int64   `mapstructure:"read_limit"`
		// AllowAnonymous accepts a participant query parameter when no token
		// is presented.
		AllowAnonymous bool `mapstructure:"allow_anonymous"`
	}

	// StoreConfig selects the best time database
	StoreConfig struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	}

	// MaterialsConfig classifies landing surfaces
	MaterialsConfig struct {
		Marker        string   `mapstructure:"marker"`
		Safe          []string `mapstructure:"safe"`
		NoGround      []string `mapstructure:"no_ground"`
		MarkerVariant int      `mapstructure:"marker_variant"`
	}

	// HooksConfig holds the completion command
	HooksConfig struct {
		CompletionCmd string        `mapstructure:"completion_cmd"`
		Timeout       time.Duration `mapstructure:"timeout"`
	}

	// LogConfig holds log file settings
	LogConfig struct {
		Level      string `mapstructure:"level"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	}

	// DisplayConfig holds terminal output settings
	DisplayConfig struct {
		LightTheme bool `mapstructure:"light_theme"`
		NoColor    bool `mapstructure:"no_color"`
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

var (
	configDir       = "parkour"
	configFileName  = "config.yml"
	coursesFileName = "courses.yml"
	dbFileName      = "parkour.db"
	logFileName     = "parkour.log"
	dbFilePath      string
	configFilePath  string
	coursesFilePath string
	logFilePath     string
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

func CoursesFilePath() string {
	return coursesFilePath
}

// InitializePaths resolves the XDG locations of every parkour file. Setting
// PARKOUR_ENV gives each file a suffix so that separate environments do not
// share state.
func InitializePaths() error {
	if env := strings.TrimSpace(os.Getenv("PARKOUR_ENV")); env != "" {
		configFileName = fmt.Sprintf("config_%s.yml", env)
		coursesFileName = fmt.Sprintf("courses_%s.yml", env)
		dbFileName = fmt.Sprintf("parkour_%s.db", env)
		logFileName = fmt.Sprintf("parkour_%s.log", env)
	}

	var err error

	configFilePath, err = xdg.ConfigFile(filepath.Join(configDir, configFileName))
	if err != nil {
		return errResolvePaths.Wrap(err)
	}

	coursesFilePath = filepath.Join(filepath.Dir(configFilePath), coursesFileName)

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		return errResolvePaths.Wrap(err)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)

	return nil
}

// New creates a new Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// SpawnPoint returns the spawn location as a vector.
func (c *Config) SpawnPoint() mgl64.Vec3 {
	if len(c.Spawn) != 3 {
		return mgl64.Vec3{}
	}

	return mgl64.Vec3{c.Spawn[0], c.Spawn[1], c.Spawn[2]}
}
