package app

import (
	"github.com/ayoisaiah/parkour/internal/apperr"
)

var (
	errBadRecording = &apperr.Error{
		Message: "recording line %d: %v",
	}

	errOutOfOrder = &apperr.Error{
		Message: "recording line %d: offset %s is before %s",
	}

	errReadRecording = &apperr.Error{
		Message: "unable to read recording",
	}

	errUnknownCourse = &apperr.Error{
		Message: "unknown course %q",
	}

	errUnknownAction = &apperr.Error{
		Message: "unknown action %q",
	}

	errNoSecret = &apperr.Error{
		Message: "no JWT secret configured: set server.jwt_secret or PARKOUR_JWT_SECRET",
	}

	errOpenEditor = &apperr.Error{
		Message: "unable to open the config file in %s",
	}
)
