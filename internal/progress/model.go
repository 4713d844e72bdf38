package progress

import (
	"context"
	"errors"
	"time"
)

// DefaultSheet names the store location (Firestore collection or SQL table) when none is configured.
const DefaultSheet = "CodeQuest_Progress"

// Column names of a progress row, in storage order.
const (
	ColumnTimestamp   = "timestamp"
	ColumnMood        = "mood"
	ColumnChallengeID = "challenge_id"
	ColumnPoints      = "points"
	ColumnTitle       = "title"
)

// Columns lists the row schema in storage order.
var Columns = []string{ColumnTimestamp, ColumnMood, ColumnChallengeID, ColumnPoints, ColumnTitle}

// Entry is one completed challenge. Entries are never updated or deleted.
type Entry struct {
	Timestamp   string `json:"timestamp"` // RFC 3339, UTC
	Mood        string `json:"mood"`
	ChallengeID string `json:"challenge_id"`
	Points      int    `json:"points"`
	Title       string `json:"title"`
}

// Record is a raw row as read back from a store, keyed by column name.
type Record map[string]any

// Repository is an append-only progress store bound to one sheet.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	// ReadAll returns every row in insertion order.
	ReadAll(ctx context.Context) ([]Record, error)
	Close() error
}

// Clock delivers the current time; extracted for deterministic testing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock implementation backed by time.Now.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

var (
	// ErrConnection indicates the progress store could not be reached or authenticated to.
	ErrConnection = errors.New("progress store unavailable")
	// ErrInvalidSheet indicates a sheet name that cannot be used as a table or collection name.
	ErrInvalidSheet = errors.New("invalid sheet name")
)
