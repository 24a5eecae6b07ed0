package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvOptions are deploy-time overrides read from the environment.
type EnvOptions struct {
	Addr        string `env:"PARKOUR_ADDR"`
	JWTSecret   string `env:"PARKOUR_JWT_SECRET"`
	StoreDriver string `env:"PARKOUR_STORE_DRIVER"`
	StorePath   string `env:"PARKOUR_STORE_PATH"`
	CoursesFile string `env:"PARKOUR_COURSES_FILE"`
	LogLevel    string `env:"PARKOUR_LOG_LEVEL"`
	NoColor     bool   `env:"PARKOUR_NO_COLOR"`
}

// WithEnv returns an Option that applies PARKOUR_* environment variables.
func WithEnv() Option {
	return func(c *Config) error {
		var opts EnvOptions

		if err := env.Parse(&opts); err != nil {
			return errParseEnv.Wrap(err)
		}

		applyEnvOptions(c, opts)

		return nil
	}
}

func applyEnvOptions(c *Config, opts EnvOptions) {
	if opts.Addr != "" {
		c.Server.Addr = opts.Addr
	}

	if opts.JWTSecret != "" {
		c.Server.JWTSecret = opts.JWTSecret
	}

	if opts.StoreDriver != "" {
		c.Store.Driver = opts.StoreDriver
	}

	if opts.StorePath != "" {
		c.Store.Path = opts.StorePath
	}

	if opts.CoursesFile != "" {
		c.CoursesFile = opts.CoursesFile
	}

	if opts.LogLevel != "" {
		c.Log.Level = opts.LogLevel
	}

	if opts.NoColor {
		c.Display.NoColor = true
	}
}
