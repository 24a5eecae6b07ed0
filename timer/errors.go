package timer

import "github.com/ayoisaiah/parkour/internal/apperr"

var (
	errNotIdle = &apperr.Error{
		Message: "countdown already scheduled (state: %s)",
	}

	errNoScheduler = &apperr.Error{
		Message: "countdown requires a scheduler",
	}
)
