package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/priya-kumar159/CodeQuest-Project/internal/challenge"
)

// Log records completed challenges in an append-only Repository. Store failures never
// escape as faults: callers get zero totals or empty entry lists together with the error.
type Log struct {
	repo   Repository
	clock  Clock
	logger *slog.Logger
}

// NewLog constructs a Log over repo.
func NewLog(repo Repository, clock Clock, logger *slog.Logger) (*Log, error) {
	if repo == nil {
		return nil, errors.New("repo is required")
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{repo: repo, clock: clock, logger: logger}, nil
}

// Append stores one entry for ch and returns the running total of all points. On failure
// the total is 0.
func (l *Log) Append(ctx context.Context, ch *challenge.Challenge, mood challenge.Mood) (int, error) {
	if ch == nil {
		return 0, errors.New("challenge is required")
	}

	entry := Entry{
		Timestamp:   l.clock.Now().UTC().Format(time.RFC3339Nano),
		Mood:        string(mood),
		ChallengeID: ch.ID,
		Points:      ch.Points,
		Title:       ch.Title,
	}

	if err := l.repo.Append(ctx, entry); err != nil {
		l.logger.Error("failed to append progress",
			slog.String("challengeId", ch.ID),
			slog.Any("error", err),
		)
		return 0, fmt.Errorf("save progress: %w", err)
	}

	entries, err := l.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	return AggregateTotal(entries), nil
}

// ReadAll returns every entry in storage order. On failure it returns an empty, non-nil slice.
func (l *Log) ReadAll(ctx context.Context) ([]Entry, error) {
	records, err := l.repo.ReadAll(ctx)
	if err != nil {
		l.logger.Warn("failed to load progress", slog.Any("error", err))
		return []Entry{}, fmt.Errorf("load progress: %w", err)
	}
	return EntriesFromRecords(records), nil
}

// Summary is the aggregate shown for a progress request.
type Summary struct {
	TotalPoints int     `json:"total_points"`
	Entries     int     `json:"entries"`
	Recent      []Entry `json:"recent"`
}

// Summarize reads the log and reports the total plus the latest recent entries, newest first.
func (l *Log) Summarize(ctx context.Context, recent int) (Summary, error) {
	entries, err := l.ReadAll(ctx)
	return Summary{
		TotalPoints: AggregateTotal(entries),
		Entries:     len(entries),
		Recent:      Recent(entries, recent),
	}, err
}

// Close releases the underlying store.
func (l *Log) Close() error {
	return l.repo.Close()
}
