package app

import (
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/parkour/internal/config"
	"github.com/ayoisaiah/parkour/internal/course"
	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/settings"
	"github.com/ayoisaiah/parkour/internal/static"
	"github.com/ayoisaiah/parkour/internal/ui"
	"github.com/ayoisaiah/parkour/parkour"
)

// loadConfig merges the config file, the environment and the flags of ctx.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.New(
		config.WithViperConfig(config.ConfigFilePath()),
		config.WithEnv(),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	ui.LightTheme = cfg.Display.LightTheme

	if cfg.Display.NoColor {
		disableStyling()
	}

	return cfg, nil
}

// setupLogging sends JSON logs to the rotating log file. The returned logger
// is also installed as the default.
func setupLogging(cfg *config.Config) (*slog.Logger, *lumberjack.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	w := &lumberjack.Logger{
		Filename:   config.LogFilePath(),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)

	return logger, w, nil
}

// loadCourses reads the configured courses file, writing the example
// courses first if the file does not exist yet.
func loadCourses(cfg *config.Config) ([]*course.Course, error) {
	wrote, err := static.InstallCourses(cfg.CoursesFile)
	if err != nil {
		return nil, err
	}

	if wrote {
		pterm.Info.Printfln("Wrote example courses to %s", cfg.CoursesFile)
	}

	return course.Load(cfg.CoursesFile)
}

func materials(cfg *config.Config) parkour.Materials {
	m := parkour.Materials{
		Marker:        geom.Material(cfg.Materials.Marker),
		MarkerVariant: cfg.Materials.MarkerVariant,
	}

	for _, s := range cfg.Materials.Safe {
		m.Safe = append(m.Safe, geom.Material(s))
	}

	for _, s := range cfg.Materials.NoGround {
		m.NoGround = append(m.NoGround, geom.Material(s))
	}

	return m
}

// settingsService returns a service whose initial values come from the
// settings section of the config.
func settingsService(cfg *config.Config) *settings.Service {
	defaults := make(map[settings.Kind]bool, len(cfg.Settings))

	for k, v := range cfg.Settings {
		defaults[settings.Kind(k)] = v
	}

	return settings.NewService(defaults, nil)
}
