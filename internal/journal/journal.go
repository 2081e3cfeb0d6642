// Package journal provides bbolt-based persistence for the publish history.
// Each successful run is recorded in an embedded database under the
// repository's .git directory so `ghpub log` and `ghpub status` can report
// past publishes without contacting the remote.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Dir is the journal location relative to the repository root
const Dir = ".git/ghpub"

var bucketPublishes = []byte("publishes")

// Entry records one completed publish run
type Entry struct {
	Time         time.Time     `json:"time"`
	Branch       string        `json:"branch"`
	Remote       string        `json:"remote"`
	Commit       string        `json:"commit,omitempty"`
	Message      string        `json:"message,omitempty"`
	FilesWritten int           `json:"files_written"`
	FilesDeleted int           `json:"files_deleted"`
	UpToDate     bool          `json:"up_to_date"`
	Pushed       bool          `json:"pushed"`
	Duration     time.Duration `json:"duration"`
}

// Journal represents the bbolt database holding the publish history
type Journal struct {
	db *bolt.DB
}

// DefaultPath returns the journal database path for a repository root
func DefaultPath(repoRoot string) string {
	return filepath.Join(repoRoot, filepath.FromSlash(Dir), "journal.db")
}

// Open opens or creates the journal database at the given path
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPublishes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal bucket: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// entryKey builds the bbolt key for an entry. The fixed-width UTC timestamp
// sorts lexicographically in chronological order.
func entryKey(t time.Time) []byte {
	return []byte(t.UTC().Format("2006-01-02T15:04:05.000000000Z"))
}

// Append records a publish run
func (j *Journal) Append(entry Entry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	data, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPublishes).Put(entryKey(entry.Time), data)
	})
}

// Recent returns up to n entries, newest first
func (j *Journal) Recent(n int) ([]Entry, error) {
	var entries []Entry
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketPublishes).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < n; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshal journal entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Last returns the most recent entry, or nil when the journal is empty
func (j *Journal) Last() (*Entry, error) {
	entries, err := j.Recent(1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}
