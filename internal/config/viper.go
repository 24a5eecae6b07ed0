package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// viper keys
const (
	keyServerAddr      = "server.addr"
	keyJWTSecret       = "server.jwt_secret"
	keyJoinRate        = "server.join_rate"
	keyJoinBurst       = "server.join_burst"
	keyReadLimit       = "server.read_limit"
	keyAllowAnonymous  = "server.allow_anonymous"
	keyStoreDriver     = "store.driver"
	keyStorePath       = "store.path"
	keyCoursesFile     = "courses_file"
	keySpawn           = "spawn"
	keySpawnDelay      = "spawn_delay"
	keySafeMaterials   = "materials.safe"
	keyNoGround        = "materials.no_ground"
	keyMarker          = "materials.marker"
	keyMarkerVariant   = "materials.marker_variant"
	keySettings        = "settings"
	keyCompletionCmd   = "hooks.completion_cmd"
	keyHookTimeout     = "hooks.timeout"
	keyMessages        = "messages"
	keyLogLevel        = "log.level"
	keyLogMaxSize      = "log.max_size_mb"
	keyLogMaxBackups   = "log.max_backups"
	keyDisplayLight    = "display.light_theme"
	keyDisplayNoColour = "display.no_color"
)

// WithViperConfig returns an Option that loads configuration from a YAML
// file, writing one with the defaults when it does not exist yet.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults.
func setupViper(v *viper.Viper) {
	v.SetDefault(keyServerAddr, ":8080")
	v.SetDefault(keyJWTSecret, "")
	v.SetDefault(keyJoinRate, 1.0)
	v.SetDefault(keyJoinBurst, 3)
	v.SetDefault(keyReadLimit, 4096)
	v.SetDefault(keyAllowAnonymous, false)
	v.SetDefault(keyStoreDriver, "bolt")
	v.SetDefault(keyStorePath, DBFilePath())
	v.SetDefault(keyCoursesFile, CoursesFilePath())
	v.SetDefault(keySpawn, []float64{0, 64, 0})
	v.SetDefault(keySpawnDelay, "2s")
	v.SetDefault(keySafeMaterials, []string{"stained_clay", "ladder"})
	v.SetDefault(keyNoGround, []string{"air"})
	v.SetDefault(keyMarker, "stained_clay")
	v.SetDefault(keyMarkerVariant, 8)
	v.SetDefault(keySettings, map[string]bool{
		"fly_in_hub":      true,
		"players":         true,
		"jump_boost":      true,
		"particle_effect": true,
	})
	v.SetDefault(keyCompletionCmd, "")
	v.SetDefault(keyHookTimeout, "30s")
	v.SetDefault(keyMessages, map[string]string{})
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogMaxSize, 10)
	v.SetDefault(keyLogMaxBackups, 3)
	v.SetDefault(keyDisplayLight, false)
	v.SetDefault(keyDisplayNoColour, false)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	return nil
}
