package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/priya-kumar159/CodeQuest-Project/internal/challenge"
)

// RecentLimit is how many entries a progress request lists.
const RecentLimit = 5

const (
	skipMessage          = "Skipped. Submit a new mood for a new challenge."
	noSolutionMessage    = "No solution available"
	noChallengeNotice    = "No challenges available right now."
	noProgressNotice     = "No progress entries found."
	pointsMessage        = "Nice! +%d pts. Total: %d pts."
	saveWarningPrefix    = "Error saving progress: "
	loadWarningPrefix    = "Progress load error: "
	sessionWarningPrefix = "Error saving session: "
)

var motivations = []string{
	"Small steps matter! 🚀",
	"Keep going! Small wins stack up.",
	"Nice work! Consistency is the secret.",
	"Every line of code counts.",
}

// Controller drives the per-session state machine. Actions on one session are serialized;
// different sessions proceed independently.
type Controller struct {
	catalog    *challenge.Catalog
	classifier *challenge.Classifier
	selector   *challenge.Selector
	log        ProgressLog
	store      Store
	rng        challenge.Rand
	logger     *slog.Logger
	locks      keyedMutex
}

// NewController wires the controller. rng and logger may be nil.
func NewController(catalog *challenge.Catalog, log ProgressLog, store Store, rng challenge.Rand, logger *slog.Logger) (*Controller, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if log == nil {
		return nil, errors.New("progress log is required")
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if rng == nil {
		rng = challenge.DefaultRand()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		catalog:    catalog,
		classifier: challenge.NewClassifier(rng),
		selector:   challenge.NewSelector(rng),
		log:        log,
		store:      store,
		rng:        rng,
		logger:     logger,
	}, nil
}

// Current renders the session without changing it.
func (c *Controller) Current(ctx context.Context, id string) (View, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	sess, err := c.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return render(sess), nil
}

// SubmitMood classifies text and shows a challenge for the detected mood, replacing any
// challenge already shown.
func (c *Controller) SubmitMood(ctx context.Context, id, text string) (View, error) {
	if strings.TrimSpace(text) == "" {
		return View{}, ErrEmptyMood
	}

	unlock := c.locks.lock(id)
	defer unlock()

	sess, err := c.load(ctx, id)
	if err != nil {
		return View{}, err
	}

	mood := c.classifier.Classify(text)
	picked := c.selector.Select(c.catalog, mood)
	if _, err := Transition(sess.State(), EventSubmitMood, picked != nil); err != nil {
		return View{}, err
	}

	sess.Mood = mood
	sess.Challenge = picked
	sess.MotivationMessage = ""
	sess.PointsMessage = ""

	if err := c.save(ctx, sess); err != nil {
		return View{}, err
	}

	view := render(sess)
	if picked == nil {
		view.Notice = noChallengeNotice
	}
	return view, nil
}

// Done records the shown challenge as completed and returns to idle. A failed write still
// completes the transition; the view then carries a warning and a zero total.
func (c *Controller) Done(ctx context.Context, id string) (View, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	sess, err := c.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if _, err := Transition(sess.State(), EventDone, false); err != nil {
		return render(sess), err
	}

	// The cleared slot is persisted before progress is written.
	ch := sess.Challenge
	sess.Challenge = nil
	sess.PointsMessage = ""
	sess.MotivationMessage = ""
	if err := c.save(ctx, sess); err != nil {
		return View{}, err
	}

	total, appendErr := c.log.Append(ctx, ch, sess.Mood)
	sess.PointsMessage = fmt.Sprintf(pointsMessage, ch.Points, total)
	sess.MotivationMessage = motivations[c.rng.IntN(len(motivations))]

	var warnings []string
	if appendErr != nil {
		warnings = append(warnings, saveWarningPrefix+appendErr.Error())
	}
	if err := c.save(ctx, sess); err != nil {
		c.logger.Warn("failed to save session messages",
			slog.String("sessionId", sess.ID),
			slog.Any("error", err),
		)
		warnings = append(warnings, sessionWarningPrefix+err.Error())
	}

	view := render(sess)
	view.Warning = strings.Join(warnings, "; ")
	return view, nil
}

// Skip discards the shown challenge without recording it.
func (c *Controller) Skip(ctx context.Context, id string) (View, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	sess, err := c.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if _, err := Transition(sess.State(), EventSkip, false); err != nil {
		return render(sess), err
	}

	sess.MotivationMessage = skipMessage
	sess.PointsMessage = ""
	sess.Challenge = nil

	if err := c.save(ctx, sess); err != nil {
		return View{}, err
	}
	return render(sess), nil
}

// ShowSolution reveals the stored solution of the shown challenge.
func (c *Controller) ShowSolution(ctx context.Context, id string) (View, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	sess, err := c.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if _, err := Transition(sess.State(), EventShowSolution, false); err != nil {
		return render(sess), err
	}

	view := render(sess)
	view.Solution = sess.Challenge.Solution
	if view.Solution == "" {
		view.Solution = noSolutionMessage
	}
	return view, nil
}

// ShowProgress reports the running total and the most recent entries, newest first.
func (c *Controller) ShowProgress(ctx context.Context, id string) (View, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	sess, err := c.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if _, err := Transition(sess.State(), EventShowProgress, false); err != nil {
		return render(sess), err
	}

	summary, loadErr := c.log.Summarize(ctx, RecentLimit)

	view := render(sess)
	view.Progress = &ProgressView{
		TotalPoints: summary.TotalPoints,
		Entries:     summary.Entries,
		Recent:      summary.Recent,
	}
	if summary.Entries == 0 {
		view.Notice = noProgressNotice
	}
	if loadErr != nil {
		view.Warning = loadWarningPrefix + loadErr.Error()
	}
	return view, nil
}

func (c *Controller) load(ctx context.Context, id string) (*Session, error) {
	snap, ok, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	sess := &Session{ID: id}
	if !ok {
		return sess, nil
	}

	sess.Mood = challenge.Mood(snap.Mood)
	sess.MotivationMessage = snap.MotivationMessage
	sess.PointsMessage = snap.PointsMessage
	if snap.ChallengeID != "" {
		ch, found := c.catalog.Lookup(snap.ChallengeID)
		if !found {
			c.logger.Warn("session references unknown challenge",
				slog.String("sessionId", id),
				slog.String("challengeId", snap.ChallengeID),
			)
		}
		sess.Challenge = ch
	}
	return sess, nil
}

func (c *Controller) save(ctx context.Context, sess *Session) error {
	snap := Snapshot{
		Mood:              string(sess.Mood),
		MotivationMessage: sess.MotivationMessage,
		PointsMessage:     sess.PointsMessage,
		UpdatedAt:         time.Now().UTC(),
	}
	if sess.Challenge != nil {
		snap.ChallengeID = sess.Challenge.ID
	}
	if err := c.store.Save(ctx, sess.ID, snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func render(sess *Session) View {
	view := View{
		SessionID:         sess.ID,
		State:             sess.State(),
		Mood:              sess.Mood,
		MotivationMessage: sess.MotivationMessage,
		PointsMessage:     sess.PointsMessage,
	}
	if ch := sess.Challenge; ch != nil {
		view.Challenge = &ChallengeView{
			ID:          ch.ID,
			Title:       ch.Title,
			Description: ch.Description,
			Points:      ch.Points,
		}
	}
	return view
}

// keyedMutex serializes work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
