package store

import (
	"slices"

	"github.com/maruel/natural"
)

// sortRecords orders records by level id so that "level-10" follows
// "level-9".
func sortRecords(records []*Record) []Record {
	slices.SortFunc(records, func(a, b *Record) int {
		switch {
		case a.LevelID == b.LevelID:
			return 0
		case natural.Less(a.LevelID, b.LevelID):
			return -1
		default:
			return 1
		}
	})

	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = *r
	}

	return out
}
