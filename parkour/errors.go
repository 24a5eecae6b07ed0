package parkour

import "github.com/ayoisaiah/parkour/internal/apperr"

var (
	// ErrSessionActive is returned when a participant already has a run.
	ErrSessionActive = &apperr.Error{
		Message: "participant %q already has an active run",
	}

	// ErrStartIndex is returned for a start index outside the ladder.
	ErrStartIndex = &apperr.Error{
		Message: "start index %d is outside the %d level ladder",
	}

	errMissingDependency = &apperr.Error{
		Message: "session dependency %s is required",
	}

	errNoCourse = &apperr.Error{
		Message: "a course is required",
	}
)
