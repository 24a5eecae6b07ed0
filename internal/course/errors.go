package course

import "github.com/ayoisaiah/parkour/internal/apperr"

// ErrInvalidCourse is wrapped around every ladder validation failure.
var ErrInvalidCourse = &apperr.Error{
	Message: "invalid course",
}

var (
	errNoLevels = &apperr.Error{
		Message: "course %q has no levels",
	}

	errDuplicateLevel = &apperr.Error{
		Message: "course %q: duplicate level id %q",
	}

	errMissingRegion = &apperr.Error{
		Message: "course %q: %s region is missing",
	}

	errTargetTooShort = &apperr.Error{
		Message: "course %q: level %q target %v must be at least %v",
	}

	errCheckpointOutside = &apperr.Error{
		Message: "course %q: checkpoint of level %q is outside its start region",
	}

	errCheckpointInEnd = &apperr.Error{
		Message: "course %q: checkpoint of level %q is inside the course end region",
	}

	errInvalidRegion = &apperr.Error{
		Message: "course %q: %s region must set either min/max or center/radius",
	}

	errInvalidVector = &apperr.Error{
		Message: "course %q: %s must have exactly 3 coordinates, got %d",
	}

	errReadCourses = &apperr.Error{
		Message: "reading courses file failed",
	}

	errDuplicateCourse = &apperr.Error{
		Message: "duplicate course name %q",
	}
)
