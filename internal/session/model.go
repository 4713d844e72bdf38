package session

import (
	"context"
	"time"

	"github.com/priya-kumar159/CodeQuest-Project/internal/challenge"
	"github.com/priya-kumar159/CodeQuest-Project/internal/progress"
)

// Session is the per-user interaction state. Challenge points into the catalog.
type Session struct {
	ID                string
	Mood              challenge.Mood
	Challenge         *challenge.Challenge
	MotivationMessage string
	PointsMessage     string
}

// State derives the state machine position from the challenge slot.
func (s *Session) State() State {
	if s.Challenge != nil {
		return StateChallengeShown
	}
	return StateIdle
}

// Snapshot is the persisted form of a Session; the challenge is kept by id.
type Snapshot struct {
	Mood              string    `json:"mood"`
	ChallengeID       string    `json:"challenge_id,omitempty"`
	MotivationMessage string    `json:"motivation_message,omitempty"`
	PointsMessage     string    `json:"points_message,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Store persists session snapshots keyed by session id.
type Store interface {
	// Load returns the snapshot and whether one existed.
	Load(ctx context.Context, id string) (Snapshot, bool, error)
	Save(ctx context.Context, id string, snap Snapshot) error
	Close() error
}

// ProgressLog is the subset of progress.Log the controller needs.
type ProgressLog interface {
	Append(ctx context.Context, ch *challenge.Challenge, mood challenge.Mood) (int, error)
	Summarize(ctx context.Context, recent int) (progress.Summary, error)
}

// ChallengeView is a challenge as displayed before the solution is requested.
type ChallengeView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// ProgressView is the outcome of a progress request.
type ProgressView struct {
	TotalPoints int              `json:"total_points"`
	Entries     int              `json:"entries"`
	Recent      []progress.Entry `json:"recent"`
}

// View is everything a surface needs to render after an action.
type View struct {
	SessionID         string         `json:"session_id"`
	State             State          `json:"state"`
	Mood              challenge.Mood `json:"mood,omitempty"`
	Challenge         *ChallengeView `json:"challenge,omitempty"`
	Solution          string         `json:"solution,omitempty"`
	MotivationMessage string         `json:"motivation_message,omitempty"`
	PointsMessage     string         `json:"points_message,omitempty"`
	Notice            string         `json:"notice,omitempty"`
	Progress          *ProgressView  `json:"progress,omitempty"`
	Warning           string         `json:"warning,omitempty"`
}
