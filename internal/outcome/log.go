package outcome

import (
	"context"
	"path/filepath"
	"time"
)

const (
	OutcomesFile = "applications.json"
	FailuresFile = "failures.json"
)

// Entry is one processed posting in the outcome log.
type Entry struct {
	Timestamp   string `json:"timestamp"`
	RunID       string `json:"runId"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	ApplyLink   string `json:"applyLink"`
	Resume      string `json:"resume"`
	CoverLetter string `json:"coverLetter"`
	Status      string `json:"status"`
}

// Failure is one posting that could not be processed.
type Failure struct {
	Timestamp string `json:"timestamp"`
	RunID     string `json:"runId"`
	JobTitle  string `json:"jobTitle"`
	Company   string `json:"company"`
	ApplyLink string `json:"applyLink"`
	Site      string `json:"site"`
	Stage     string `json:"stage"`
	Error     string `json:"error"`
}

// Log groups the outcome and failure stores of one log directory.
type Log struct {
	Outcomes *Store[Entry]
	Failures *Store[Failure]
	now      func() time.Time
}

func Open(dir string) *Log {
	return &Log{
		Outcomes: NewStore[Entry](filepath.Join(dir, OutcomesFile)),
		Failures: NewStore[Failure](filepath.Join(dir, FailuresFile)),
		now:      time.Now,
	}
}

// Timestamp is the ISO-8601 UTC time used in log records.
func (l *Log) Timestamp() string {
	return l.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Record stamps e if needed and appends it to the outcome log.
func (l *Log) Record(ctx context.Context, e Entry) error {
	if e.Timestamp == "" {
		e.Timestamp = l.Timestamp()
	}
	return l.Outcomes.Append(ctx, e)
}

// Fail stamps f if needed and appends it to the failure log.
func (l *Log) Fail(ctx context.Context, f Failure) error {
	if f.Timestamp == "" {
		f.Timestamp = l.Timestamp()
	}
	return l.Failures.Append(ctx, f)
}
