package store

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/parkour/internal/osutil"
	"github.com/ayoisaiah/parkour/internal/timeutil"
)

const (
	bestBucket       = "best_times"
	completionBucket = "completions"
)

// Client is a BoltDB database client. Keys are "participant/levelID"; best
// times are stored as decimal milliseconds.
type Client struct {
	*bolt.DB
}

var _ DB = (*Client)(nil)

// openDB creates or opens a database and locks it.
func openDB(path string) (*bolt.DB, error) {
	db, err := bolt.Open(
		path,
		osutil.FilePermission,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyOpen.Fmt(path)
		}

		return nil, ErrUnavailable.Wrap(err)
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(path string) (*Client, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bestBucket)); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists([]byte(completionBucket))

		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, ErrUnavailable.Wrap(err)
	}

	return &Client{db}, nil
}

func (c *Client) BestTime(participant, levelID string) (time.Duration, bool, error) {
	var (
		best  time.Duration
		found bool
	)

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bestBucket)).Get(key(participant, levelID))
		if v == nil {
			return nil
		}

		ms, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}

		best, found = timeutil.FromMillis(ms), true

		return nil
	})
	if err != nil {
		return 0, false, ErrUnavailable.Wrap(err)
	}

	return best, found, nil
}

func (c *Client) SetBestTime(participant, levelID string, d time.Duration) error {
	value := []byte(strconv.FormatInt(timeutil.Millis(d), 10))

	err := c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bestBucket)).Put(key(participant, levelID), value)
	})
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}

	return nil
}

func (c *Client) MarkCompleted(participant, levelID string) error {
	err := c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(completionBucket)).Put(key(participant, levelID), []byte{1})
	})
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}

	return nil
}

func (c *Client) Records(participant string) ([]Record, error) {
	prefix := key(participant, "")
	byLevel := make(map[string]*Record)

	var records []*Record

	get := func(levelID string) *Record {
		r, ok := byLevel[levelID]
		if !ok {
			r = &Record{LevelID: levelID}
			byLevel[levelID] = r
			records = append(records, r)
		}

		return r
	}

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(bestBucket)).Cursor()

		for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
			ms, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return err
			}

			r := get(string(k[len(prefix):]))
			r.Best, r.HasBest = timeutil.FromMillis(ms), true
		}

		cur = tx.Bucket([]byte(completionBucket)).Cursor()

		for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
			get(string(k[len(prefix):])).Completed = true
		}

		return nil
	})
	if err != nil {
		return nil, ErrUnavailable.Wrap(err)
	}

	return sortRecords(records), nil
}

func (c *Client) DeleteRecords(participant string) error {
	prefix := key(participant, "")

	err := c.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bestBucket, completionBucket} {
			b := tx.Bucket([]byte(name))

			var keys [][]byte

			cur := b.Cursor()
			for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
				keys = append(keys, bytes.Clone(k))
			}

			for _, k := range keys {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}

	return nil
}
