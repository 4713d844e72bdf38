package challenge

import (
	"errors"
	"math/rand/v2"
)

// Mood is a mood category used to bucket challenges.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodTired   Mood = "tired"
	MoodExcited Mood = "excited"
	MoodSad     Mood = "sad"
)

// KnownMoods lists every supported category in canonical order.
var KnownMoods = []Mood{MoodHappy, MoodTired, MoodExcited, MoodSad}

// IsKnown reports whether m is one of KnownMoods.
func (m Mood) IsKnown() bool {
	for _, known := range KnownMoods {
		if m == known {
			return true
		}
	}
	return false
}

// Challenge is a coding exercise offered for a mood. Records are immutable once loaded.
type Challenge struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description" validate:"required"`
	Points      int    `json:"points" yaml:"points" validate:"gte=0"`
	Solution    string `json:"solution,omitempty" yaml:"solution,omitempty"`
}

// Document is the persisted shape of a catalog: mood category to ordered challenges.
type Document map[Mood][]Challenge

var (
	// ErrInvalidCatalog indicates the catalog document failed validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrSourceNotExist indicates the catalog has not been persisted yet.
	ErrSourceNotExist = errors.New("catalog source does not exist")
)

// Rand picks uniformly from [0, n). It must be safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultRand returns a Rand backed by the math/rand/v2 global source.
func DefaultRand() Rand {
	return globalRand{}
}
