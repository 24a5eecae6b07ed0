package config

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ayoisaiah/parkour/internal/presentation"
	"github.com/ayoisaiah/parkour/internal/settings"
)

var (
	minSpawnDelay = time.Duration(0)
	maxSpawnDelay = time.Minute

	drivers = []string{"bolt", "sqlite"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errEmptyAddr
	}

	if c.Server.JoinRate <= 0 || c.Server.JoinBurst < 1 {
		return errInvalidJoinRate
	}

	if !slices.Contains(drivers, c.Store.Driver) {
		return errInvalidDriver.Fmt(c.Store.Driver)
	}

	if len(c.Spawn) != 3 {
		return errInvalidSpawn.Fmt(len(c.Spawn))
	}

	if c.SpawnDelay < minSpawnDelay || c.SpawnDelay > maxSpawnDelay {
		return errInvalidSpawnDelay.Fmt(minSpawnDelay, maxSpawnDelay)
	}

	if err := c.validateMaterials(); err != nil {
		return err
	}

	if c.Hooks.Timeout < 0 {
		return errNegativeTimeout
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	keys := presentation.Keys()

	for k := range c.Messages {
		if !slices.Contains(keys, k) {
			return errUnknownMessage.Fmt(k)
		}
	}

	for k := range c.Settings {
		if !slices.Contains(settings.Locked, settings.Kind(k)) {
			return errUnknownSetting.Fmt(k)
		}
	}

	return nil
}

func (c *Config) validateMaterials() error {
	if len(c.Materials.Safe) == 0 {
		return errNoSafeMaterials
	}

	if c.Materials.Marker != "" && !slices.Contains(c.Materials.Safe, c.Materials.Marker) {
		return errMarkerNotSafe.Fmt(c.Materials.Marker)
	}

	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, errInvalidLogLevel.Fmt(c.Log.Level)
	}

	return level, nil
}
