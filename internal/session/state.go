package session

import (
	"errors"
	"fmt"
)

// State is the position of a session in the interaction state machine.
type State string

const (
	StateIdle           State = "idle"
	StateChallengeShown State = "challenge_shown"
)

// Event is a discrete user action.
type Event string

const (
	EventSubmitMood   Event = "submit_mood"
	EventDone         Event = "done"
	EventSkip         Event = "skip"
	EventShowSolution Event = "show_solution"
	EventShowProgress Event = "show_progress"
)

var (
	// ErrNoActiveChallenge indicates an action that needs a shown challenge arrived in StateIdle.
	ErrNoActiveChallenge = errors.New("no active challenge")
	// ErrEmptyMood indicates a mood submission without any text.
	ErrEmptyMood = errors.New("mood is required")
	// ErrUnknownEvent indicates an event outside the state machine.
	ErrUnknownEvent = errors.New("unknown event")
)

// Transition returns the state reached from `from` on ev. For EventSubmitMood, selected
// reports whether a challenge was found.
func Transition(from State, ev Event, selected bool) (State, error) {
	switch ev {
	case EventSubmitMood:
		if selected {
			return StateChallengeShown, nil
		}
		return StateIdle, nil
	case EventDone, EventSkip:
		if from != StateChallengeShown {
			return from, ErrNoActiveChallenge
		}
		return StateIdle, nil
	case EventShowSolution:
		if from != StateChallengeShown {
			return from, ErrNoActiveChallenge
		}
		return from, nil
	case EventShowProgress:
		return from, nil
	default:
		return from, fmt.Errorf("%w: %s", ErrUnknownEvent, ev)
	}
}
