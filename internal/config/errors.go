package config

import "github.com/ayoisaiah/parkour/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errResolvePaths = &apperr.Error{
		Message: "resolving config paths failed",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errParseEnv = &apperr.Error{
		Message: "reading environment failed",
	}

	errEmptyAddr = &apperr.Error{
		Message: "server address cannot be empty",
	}

	errInvalidDriver = &apperr.Error{
		Message: "store driver must be bolt or sqlite, got %q",
	}

	errInvalidSpawn = &apperr.Error{
		Message: "spawn must have exactly 3 coordinates, got %d",
	}

	errInvalidSpawnDelay = &apperr.Error{
		Message: "spawn delay must be between %v and %v",
	}

	errNoSafeMaterials = &apperr.Error{
		Message: "at least one safe material is required",
	}

	errMarkerNotSafe = &apperr.Error{
		Message: "marker material %q must be one of the safe materials",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "unknown log level %q (expected debug, info, warn or error)",
	}

	errUnknownMessage = &apperr.Error{
		Message: "unknown message key %q",
	}

	errUnknownSetting = &apperr.Error{
		Message: "unknown setting %q",
	}

	errInvalidJoinRate = &apperr.Error{
		Message: "join rate must be positive and burst at least 1",
	}

	errNegativeTimeout = &apperr.Error{
		Message: "hook timeout cannot be negative",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid %s duration: %v",
	}
)
