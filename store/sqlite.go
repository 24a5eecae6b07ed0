package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ayoisaiah/parkour/internal/timeutil"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS best_times (
	participant TEXT NOT NULL,
	level_id    TEXT NOT NULL,
	best_ms     INTEGER NOT NULL,
	PRIMARY KEY (participant, level_id)
);

CREATE TABLE IF NOT EXISTS completions (
	participant TEXT NOT NULL,
	level_id    TEXT NOT NULL,
	PRIMARY KEY (participant, level_id)
);
`

// SQLite is a DB backed by a SQLite file. Unlike bolt, several processes
// may share it.
type SQLite struct {
	db *sql.DB
}

var _ DB = (*SQLite)(nil)

// NewSQLite opens or creates the SQLite database at path.
func NewSQLite(path string) (*SQLite, error) {
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, ErrUnavailable.Wrap(err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, ErrUnavailable.Wrap(err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, ErrUnavailable.Wrap(err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) BestTime(participant, levelID string) (time.Duration, bool, error) {
	var ms int64

	err := s.db.QueryRow(
		`SELECT best_ms FROM best_times WHERE participant = ? AND level_id = ?`,
		participant, levelID,
	).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, ErrUnavailable.Wrap(err)
	}

	return timeutil.FromMillis(ms), true, nil
}

func (s *SQLite) SetBestTime(participant, levelID string, d time.Duration) error {
	_, err := s.db.Exec(
		`INSERT INTO best_times (participant, level_id, best_ms) VALUES (?, ?, ?)
		ON CONFLICT (participant, level_id) DO UPDATE SET best_ms = excluded.best_ms`,
		participant, levelID, timeutil.Millis(d),
	)
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}

	return nil
}

func (s *SQLite) MarkCompleted(participant, levelID string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO completions (participant, level_id) VALUES (?, ?)`,
		participant, levelID,
	)
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}

	return nil
}

func (s *SQLite) Records(participant string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT level_id, best_ms, 1 FROM best_times WHERE participant = ?1
		UNION ALL
		SELECT level_id, 0, 0 FROM completions WHERE participant = ?1`,
		participant,
	)
	if err != nil {
		return nil, ErrUnavailable.Wrap(err)
	}
	defer rows.Close()

	byLevel := make(map[string]*Record)

	var records []*Record

	for rows.Next() {
		var (
			levelID string
			ms      int64
			isBest  bool
		)

		if err := rows.Scan(&levelID, &ms, &isBest); err != nil {
			return nil, ErrUnavailable.Wrap(err)
		}

		r, ok := byLevel[levelID]
		if !ok {
			r = &Record{LevelID: levelID}
			byLevel[levelID] = r
			records = append(records, r)
		}

		if isBest {
			r.Best, r.HasBest = timeutil.FromMillis(ms), true
		} else {
			r.Completed = true
		}
	}

	if err := rows.Err(); err != nil {
		return nil, ErrUnavailable.Wrap(err)
	}

	return sortRecords(records), nil
}

func (s *SQLite) DeleteRecords(participant string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}

	for _, table := range []string{"best_times", "completions"} {
		_, err := tx.Exec(`DELETE FROM `+table+` WHERE participant = ?`, participant)
		if err != nil {
			_ = tx.Rollback()
			return ErrUnavailable.Wrap(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ErrUnavailable.Wrap(err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
