package outcome

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendPreservesPriorEntries(t *testing.T) {
	dir := t.TempDir()
	l := Open(filepath.Join(dir, "logs"))
	l.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, Entry{JobTitle: "A", Resume: "A_resume_1.pdf"}))
	require.NoError(t, l.Record(ctx, Entry{JobTitle: "B", Timestamp: "2026-01-01T00:00:00.000Z"}))
	require.NoError(t, l.Record(ctx, Entry{JobTitle: "C"}))

	entries, err := l.Outcomes.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{entries[0].JobTitle, entries[1].JobTitle, entries[2].JobTitle})
	assert.Equal(t, "2026-03-01T08:00:00.000Z", entries[0].Timestamp)
	assert.Equal(t, "2026-01-01T00:00:00.000Z", entries[1].Timestamp)

	_, err = os.Stat(l.Outcomes.Path() + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist, "temp file is renamed into place")
}

func TestStore_WireFormat(t *testing.T) {
	l := Open(t.TempDir())
	require.NoError(t, l.Record(context.Background(), Entry{
		Timestamp: "2026-03-01T08:00:00.000Z", RunID: "run-1", JobTitle: "Go Dev", Company: "Acme",
		Location: "Toronto", ApplyLink: "https://x", Resume: "r.pdf", CoverLetter: "c.pdf", Status: "submitted",
	}))

	data, err := os.ReadFile(l.Outcomes.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"timestamp":"2026-03-01T08:00:00.000Z","runId":"run-1","jobTitle":"Go Dev","company":"Acme",
		"location":"Toronto","applyLink":"https://x","resume":"r.pdf","coverLetter":"c.pdf","status":"submitted"}]`, string(data))
}

func TestStore_ReadsExistingLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, OutcomesFile)
	legacy := `[{"timestamp":"2025-01-01T08:00:00.000Z","jobTitle":"Old","company":"X","location":"Y","applyLink":"z","resume":"a.pdf","coverLetter":"b.pdf"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	l := Open(dir)
	require.NoError(t, l.Record(context.Background(), Entry{JobTitle: "New"}))

	entries, err := l.Outcomes.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Old", entries[0].JobTitle)
	assert.Equal(t, "a.pdf", entries[0].Resume)
}

func TestStore_CorruptLogIsNotOverwritten(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FailuresFile)
	require.NoError(t, os.WriteFile(path, []byte(`[{"jobTitle":`), 0o644))

	err := Open(dir).Fail(context.Background(), Failure{JobTitle: "x"})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"jobTitle":`, string(data))
}

func TestStore_MissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewStore[Entry](filepath.Join(dir, "none.json"))
	entries, err := s.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, entries)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	entries, err = NewStore[Entry](empty).ReadAll()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_SerializedWriters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, OutcomesFile)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// separate Store values stand in for separate processes
			assert.NoError(t, NewStore[Entry](path).Append(context.Background(), Entry{JobTitle: "x"}))
		}()
	}
	wg.Wait()

	entries, err := NewStore[Entry](path).ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 8)
}
