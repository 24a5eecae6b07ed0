package store

import "github.com/ayoisaiah/parkour/internal/apperr"

var (
	// ErrUnavailable wraps every failure to reach the underlying database.
	ErrUnavailable = &apperr.Error{
		Message: "best time store unavailable",
	}

	errAlreadyOpen = &apperr.Error{
		Message: "is parkour already running? Only one instance can use %s at a time",
	}

	errUnknownDriver = &apperr.Error{
		Message: "unknown store driver %q (expected bolt or sqlite)",
	}
)
