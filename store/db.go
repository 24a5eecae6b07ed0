// Package store persists best times and level completions per participant
package store

import (
	"time"

	"github.com/ayoisaiah/parkour/internal/osutil"
)

const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Record is everything stored for one participant and level.
type Record struct {
	LevelID   string
	Best      time.Duration
	HasBest   bool
	Completed bool
}

// DB is the best time storage interface.
type DB interface {
	// BestTime returns the fastest recorded time for a level and whether one
	// exists.
	BestTime(participant, levelID string) (time.Duration, bool, error)
	// SetBestTime overwrites the stored best time.
	SetBestTime(participant, levelID string, d time.Duration) error
	// MarkCompleted flags a level as completed at least once.
	MarkCompleted(participant, levelID string) error
	// Records returns every record of a participant ordered by level id.
	Records(participant string) ([]Record, error)
	// DeleteRecords removes every record of a participant.
	DeleteRecords(participant string) error
	// Close ends the database connection
	Close() error
}

// Open creates or opens the database at path using driver.
func Open(driver, path string) (DB, error) {
	if err := osutil.EnsureParentDir(path); err != nil {
		return nil, ErrUnavailable.Wrap(err)
	}

	switch driver {
	case DriverBolt, "":
		return NewClient(path)
	case DriverSQLite:
		return NewSQLite(path)
	}

	return nil, errUnknownDriver.Fmt(driver)
}

func key(participant, levelID string) []byte {
	return []byte(participant + "/" + levelID)
}
