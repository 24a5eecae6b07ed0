package server

import (
	"github.com/ayoisaiah/parkour/internal/apperr"
)

var (
	errNotConnected = &apperr.Error{
		Message: "participant %q is not connected",
	}

	errAlreadyConnected = &apperr.Error{
		Message: "participant %q is already connected",
	}

	errBadParticipant = &apperr.Error{
		Message: "invalid participant id %q",
	}

	errUnauthorized = &apperr.Error{
		Message: "missing or invalid token",
	}

	errUnknownCourse = &apperr.Error{
		Message: "unknown course %q",
	}

	errJoinThrottled = &apperr.Error{
		Message: "too many join attempts, slow down",
	}

	errBadFrame = &apperr.Error{
		Message: "malformed frame",
	}

	errListen = &apperr.Error{
		Message: "server stopped unexpectedly",
	}
)

var errMissingDependency = &apperr.Error{
	Message: "server needs a registry and a hub",
}
