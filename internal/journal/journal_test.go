package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(filepath.Join(t.TempDir(), "ghpub", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal(t *testing.T) {
	t.Parallel()

	t.Run("creates the database and its directory", func(t *testing.T) {
		t.Parallel()

		j := openTestJournal(t)

		entries, err := j.Recent(10)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("returns entries newest first", func(t *testing.T) {
		t.Parallel()

		j := openTestJournal(t)
		base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 3; i++ {
			require.NoError(t, j.Append(Entry{
				Time:   base.Add(time.Duration(i) * time.Minute),
				Branch: "gh-pages",
				Remote: "origin",
				Commit: string(rune('a' + i)),
			}))
		}

		entries, err := j.Recent(10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		require.Equal(t, "c", entries[0].Commit)
		require.Equal(t, "b", entries[1].Commit)
		require.Equal(t, "a", entries[2].Commit)
	})

	t.Run("limits the number of entries", func(t *testing.T) {
		t.Parallel()

		j := openTestJournal(t)
		base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 5; i++ {
			require.NoError(t, j.Append(Entry{
				Time:   base.Add(time.Duration(i) * time.Minute),
				Branch: "gh-pages",
			}))
		}

		entries, err := j.Recent(2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("orders sub-second entries correctly", func(t *testing.T) {
		t.Parallel()

		j := openTestJournal(t)
		base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

		// A whole-second timestamp must sort before a later fractional one
		require.NoError(t, j.Append(Entry{Time: base, Commit: "first"}))
		require.NoError(t, j.Append(Entry{Time: base.Add(500 * time.Millisecond), Commit: "second"}))

		entries, err := j.Recent(2)
		require.NoError(t, err)
		require.Equal(t, "second", entries[0].Commit)
		require.Equal(t, "first", entries[1].Commit)
	})

	t.Run("assigns a timestamp when none is set", func(t *testing.T) {
		t.Parallel()

		j := openTestJournal(t)
		require.NoError(t, j.Append(Entry{Branch: "gh-pages"}))

		last, err := j.Last()
		require.NoError(t, err)
		require.NotNil(t, last)
		require.False(t, last.Time.IsZero())
	})

	t.Run("persists entries across reopening", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "journal.db")

		j, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, j.Append(Entry{
			Branch:       "gh-pages",
			Remote:       "origin",
			Commit:       "abc12345",
			FilesWritten: 4,
			Pushed:       true,
			Duration:     2 * time.Second,
		}))
		require.NoError(t, j.Close())

		reopened, err := Open(path)
		require.NoError(t, err)
		defer reopened.Close()

		last, err := reopened.Last()
		require.NoError(t, err)
		require.NotNil(t, last)
		require.Equal(t, "abc12345", last.Commit)
		require.Equal(t, 4, last.FilesWritten)
		require.True(t, last.Pushed)
		require.Equal(t, 2*time.Second, last.Duration)
	})

	t.Run("last returns nil on an empty journal", func(t *testing.T) {
		t.Parallel()

		j := openTestJournal(t)

		last, err := j.Last()
		require.NoError(t, err)
		require.Nil(t, last)
	})
}
