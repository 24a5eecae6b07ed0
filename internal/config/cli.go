package config

import (
	"time"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Addr        string
	CoursesFile string
	StoreDriver string
	StorePath   string
	SpawnDelay  string
	LogLevel    string
	NoColor     bool
	LightTheme  bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Addr:        ctx.String("addr"),
			CoursesFile: ctx.String("courses"),
			StoreDriver: ctx.String("store-driver"),
			StorePath:   ctx.String("db"),
			SpawnDelay:  ctx.String("spawn-delay"),
			LogLevel:    ctx.String("log-level"),
			NoColor:     ctx.Bool("no-color"),
			LightTheme:  ctx.Bool("light-theme"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if opts.Addr != "" {
		c.Server.Addr = opts.Addr
	}

	if opts.CoursesFile != "" {
		c.CoursesFile = opts.CoursesFile
	}

	if opts.StoreDriver != "" {
		c.Store.Driver = opts.StoreDriver
	}

	if opts.StorePath != "" {
		c.Store.Path = opts.StorePath
	}

	if opts.SpawnDelay != "" {
		d, err := time.ParseDuration(opts.SpawnDelay)
		if err != nil {
			return errInvalidCLIDuration.Fmt("spawn delay", err)
		}

		c.SpawnDelay = d
	}

	if opts.LogLevel != "" {
		c.Log.Level = opts.LogLevel
	}

	if opts.NoColor {
		c.Display.NoColor = true
	}

	if opts.LightTheme {
		c.Display.LightTheme = true
	}

	return nil
}
