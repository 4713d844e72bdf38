package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priya-kumar159/CodeQuest-Project/internal/challenge"
	"github.com/priya-kumar159/CodeQuest-Project/internal/progress"
	"github.com/priya-kumar159/CodeQuest-Project/internal/shared/logging"
)

type fakeStore struct {
	loadFn func(context.Context, string) (Snapshot, bool, error)
	saveFn func(context.Context, string, Snapshot) error
}

func (f *fakeStore) Load(ctx context.Context, id string) (Snapshot, bool, error) {
	if f.loadFn != nil {
		return f.loadFn(ctx, id)
	}
	return Snapshot{}, false, nil
}

func (f *fakeStore) Save(ctx context.Context, id string, snap Snapshot) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, id, snap)
	}
	return nil
}

func (f *fakeStore) Close() error {
	return nil
}

func defaultCatalog(t *testing.T) *challenge.Catalog {
	t.Helper()
	cat, err := challenge.NewCatalog(challenge.DefaultDocument())
	require.NoError(t, err)
	return cat
}

func newTestController(t *testing.T, cat *challenge.Catalog, repo progress.Repository) *Controller {
	t.Helper()
	log, err := progress.NewLog(repo, progress.NewSystemClock(), logging.Discard())
	require.NoError(t, err)
	ctrl, err := NewController(cat, log, NewMemoryStore(), rand.New(rand.NewPCG(3, 5)), logging.Discard())
	require.NoError(t, err)
	return ctrl
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     State
		event    Event
		selected bool
		want     State
		wantErr  error
	}{
		{"mood from idle", StateIdle, EventSubmitMood, true, StateChallengeShown, nil},
		{"mood without challenge", StateIdle, EventSubmitMood, false, StateIdle, nil},
		{"mood replaces shown", StateChallengeShown, EventSubmitMood, true, StateChallengeShown, nil},
		{"done", StateChallengeShown, EventDone, false, StateIdle, nil},
		{"skip", StateChallengeShown, EventSkip, false, StateIdle, nil},
		{"solution keeps state", StateChallengeShown, EventShowSolution, false, StateChallengeShown, nil},
		{"progress from idle", StateIdle, EventShowProgress, false, StateIdle, nil},
		{"progress while shown", StateChallengeShown, EventShowProgress, false, StateChallengeShown, nil},
		{"done while idle", StateIdle, EventDone, false, StateIdle, ErrNoActiveChallenge},
		{"skip while idle", StateIdle, EventSkip, false, StateIdle, ErrNoActiveChallenge},
		{"solution while idle", StateIdle, EventShowSolution, false, StateIdle, ErrNoActiveChallenge},
		{"unknown", StateIdle, Event("dance"), false, StateIdle, ErrUnknownEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.event, tt.selected)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewControllerRequiresDependencies(t *testing.T) {
	cat := defaultCatalog(t)
	log, err := progress.NewLog(progress.NewMemoryRepository(), nil, nil)
	require.NoError(t, err)

	_, err = NewController(nil, log, NewMemoryStore(), nil, nil)
	assert.Error(t, err)
	_, err = NewController(cat, nil, NewMemoryStore(), nil, nil)
	assert.Error(t, err)
	_, err = NewController(cat, log, nil, nil, nil)
	assert.Error(t, err)
}

func TestSmileyThroughDone(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t, defaultCatalog(t), progress.NewMemoryRepository())

	view, err := ctrl.SubmitMood(ctx, "s1", "😊")
	require.NoError(t, err)
	assert.Equal(t, challenge.MoodHappy, view.Mood)
	assert.Equal(t, StateChallengeShown, view.State)
	require.NotNil(t, view.Challenge)
	assert.Equal(t, "happy_1", view.Challenge.ID)
	assert.Empty(t, view.Solution)

	view, err = ctrl.Done(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, view.State)
	assert.Nil(t, view.Challenge)
	assert.Equal(t, "Nice! +10 pts. Total: 10 pts.", view.PointsMessage)
	assert.Contains(t, motivations, view.MotivationMessage)
	assert.Empty(t, view.Warning)

	_, err = ctrl.SubmitMood(ctx, "s1", "feeling good")
	require.NoError(t, err)
	view, err = ctrl.Done(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Nice! +10 pts. Total: 20 pts.", view.PointsMessage)
}

func TestSubmitMoodRejectsEmptyText(t *testing.T) {
	ctrl := newTestController(t, defaultCatalog(t), progress.NewMemoryRepository())

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := ctrl.SubmitMood(context.Background(), "s1", text)
		assert.ErrorIs(t, err, ErrEmptyMood)
	}
}

func TestSubmitMoodWithEmptyCatalog(t *testing.T) {
	cat, err := challenge.NewCatalog(challenge.Document{})
	require.NoError(t, err)
	ctrl := newTestController(t, cat, progress.NewMemoryRepository())

	view, err := ctrl.SubmitMood(context.Background(), "s1", "happy")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, view.State)
	assert.Nil(t, view.Challenge)
	assert.Equal(t, noChallengeNotice, view.Notice)
}

func TestActionsWhileIdle(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t, defaultCatalog(t), progress.NewMemoryRepository())

	_, err := ctrl.Done(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoActiveChallenge)
	_, err = ctrl.Skip(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoActiveChallenge)
	_, err = ctrl.ShowSolution(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoActiveChallenge)

	view, err := ctrl.ShowProgress(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, noProgressNotice, view.Notice)
	require.NotNil(t, view.Progress)
	assert.Zero(t, view.Progress.TotalPoints)
	assert.NotNil(t, view.Progress.Recent)
}

func TestSkip(t *testing.T) {
	ctx := context.Background()
	repo := progress.NewMemoryRepository()
	ctrl := newTestController(t, defaultCatalog(t), repo)

	_, err := ctrl.SubmitMood(ctx, "s1", "so tired")
	require.NoError(t, err)

	view, err := ctrl.Skip(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, view.State)
	assert.Equal(t, skipMessage, view.MotivationMessage)
	assert.Empty(t, view.PointsMessage)

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestShowSolution(t *testing.T) {
	ctx := context.Background()
	cat, err := challenge.NewCatalog(challenge.Document{
		challenge.MoodSad: {
			{ID: "sad_x", Title: "Breathe", Description: "Take five breaths.", Points: 1},
		},
		challenge.MoodHappy: {
			{ID: "happy_x", Title: "Smile", Description: "Print a smiley.", Points: 2, Solution: `fmt.Println(":)")`},
		},
	})
	require.NoError(t, err)
	ctrl := newTestController(t, cat, progress.NewMemoryRepository())

	_, err = ctrl.SubmitMood(ctx, "s1", "happy")
	require.NoError(t, err)
	view, err := ctrl.ShowSolution(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, `fmt.Println(":)")`, view.Solution)
	assert.Equal(t, StateChallengeShown, view.State)

	_, err = ctrl.SubmitMood(ctx, "s1", "feeling down")
	require.NoError(t, err)
	view, err = ctrl.ShowSolution(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, noSolutionMessage, view.Solution)
}

func TestShowProgressListsRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := progress.NewMemoryRepository()
	for i := 1; i <= 7; i++ {
		require.NoError(t, repo.Append(ctx, progress.Entry{
			Timestamp:   fmt.Sprintf("2026-10-18T08:0%d:00Z", i),
			Mood:        "happy",
			ChallengeID: fmt.Sprintf("c%d", i),
			Points:      i,
			Title:       "t",
		}))
	}
	ctrl := newTestController(t, defaultCatalog(t), repo)

	view, err := ctrl.ShowProgress(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, view.Progress)
	assert.Equal(t, 28, view.Progress.TotalPoints)
	assert.Equal(t, 7, view.Progress.Entries)
	require.Len(t, view.Progress.Recent, RecentLimit)

	ids := make([]string, 0, RecentLimit)
	for _, e := range view.Progress.Recent {
		ids = append(ids, e.ChallengeID)
	}
	assert.Equal(t, []string{"c7", "c6", "c5", "c4", "c3"}, ids)
	assert.Empty(t, view.Notice)
}

func TestDoneWithUnavailableProgress(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t, defaultCatalog(t), progress.Unavailable(errors.New("no credentials")))

	_, err := ctrl.SubmitMood(ctx, "s1", "🤩")
	require.NoError(t, err)

	view, err := ctrl.Done(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, view.State)
	assert.Equal(t, "Nice! +20 pts. Total: 0 pts.", view.PointsMessage)
	assert.Contains(t, view.Warning, saveWarningPrefix)

	view, err = ctrl.ShowProgress(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, view.Progress.TotalPoints)
	assert.NotNil(t, view.Progress.Recent)
	assert.Contains(t, view.Warning, loadWarningPrefix)
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t, defaultCatalog(t), progress.NewMemoryRepository())

	_, err := ctrl.SubmitMood(ctx, "alice", "happy")
	require.NoError(t, err)

	view, err := ctrl.Current(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, view.State)

	view, err = ctrl.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, StateChallengeShown, view.State)
	assert.Equal(t, "happy_1", view.Challenge.ID)
}

func TestConcurrentDoneRecordsOnce(t *testing.T) {
	ctx := context.Background()
	repo := progress.NewMemoryRepository()
	ctrl := newTestController(t, defaultCatalog(t), repo)

	_, err := ctrl.SubmitMood(ctx, "s1", "happy")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ctrl.Done(ctx, "s1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrNoActiveChallenge)
	}
	assert.Equal(t, 1, succeeded)

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUnknownChallengeInSnapshotLoadsIdle(t *testing.T) {
	store := &fakeStore{
		loadFn: func(context.Context, string) (Snapshot, bool, error) {
			return Snapshot{Mood: "happy", ChallengeID: "gone_1"}, true, nil
		},
	}
	log, err := progress.NewLog(progress.NewMemoryRepository(), nil, logging.Discard())
	require.NoError(t, err)
	ctrl, err := NewController(defaultCatalog(t), log, store, nil, logging.Discard())
	require.NoError(t, err)

	view, err := ctrl.Current(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, view.State)
	assert.Equal(t, challenge.MoodHappy, view.Mood)
}

func TestStoreFailuresSurface(t *testing.T) {
	boom := errors.New("store down")
	log, err := progress.NewLog(progress.NewMemoryRepository(), nil, logging.Discard())
	require.NoError(t, err)

	loadFails, err := NewController(defaultCatalog(t), log, &fakeStore{
		loadFn: func(context.Context, string) (Snapshot, bool, error) { return Snapshot{}, false, boom },
	}, nil, logging.Discard())
	require.NoError(t, err)
	_, err = loadFails.Current(context.Background(), "s1")
	assert.ErrorIs(t, err, boom)

	saveFails, err := NewController(defaultCatalog(t), log, &fakeStore{
		saveFn: func(context.Context, string, Snapshot) error { return boom },
	}, nil, logging.Discard())
	require.NoError(t, err)
	_, err = saveFails.SubmitMood(context.Background(), "s1", "happy")
	assert.ErrorIs(t, err, boom)
}

// flakyStore wraps a memory store and fails the next failSaves saves.
func flakyStore(failSaves *int) *fakeStore {
	inner := NewMemoryStore()
	return &fakeStore{
		loadFn: inner.Load,
		saveFn: func(ctx context.Context, id string, snap Snapshot) error {
			if *failSaves > 0 {
				*failSaves--
				return errors.New("redis blip")
			}
			return inner.Save(ctx, id, snap)
		},
	}
}

func TestDoneWithFailedSaveRecordsNothing(t *testing.T) {
	ctx := context.Background()
	repo := progress.NewMemoryRepository()
	log, err := progress.NewLog(repo, nil, logging.Discard())
	require.NoError(t, err)
	failSaves := 0
	ctrl, err := NewController(defaultCatalog(t), log, flakyStore(&failSaves), nil, logging.Discard())
	require.NoError(t, err)

	_, err = ctrl.SubmitMood(ctx, "s1", "happy")
	require.NoError(t, err)

	failSaves = 1
	_, err = ctrl.Done(ctx, "s1")
	require.Error(t, err)

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	view, err := ctrl.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateChallengeShown, view.State)

	view, err = ctrl.Done(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Nice! +10 pts. Total: 10 pts.", view.PointsMessage)

	records, err = repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestDoneWithFailedMessageSaveWarns(t *testing.T) {
	ctx := context.Background()
	repo := progress.NewMemoryRepository()
	log, err := progress.NewLog(repo, nil, logging.Discard())
	require.NoError(t, err)
	failSaves := 0
	store := flakyStore(&failSaves)
	ctrl, err := NewController(defaultCatalog(t), log, store, nil, logging.Discard())
	require.NoError(t, err)

	_, err = ctrl.SubmitMood(ctx, "s1", "happy")
	require.NoError(t, err)

	// The claim save succeeds; the save carrying the messages fails.
	store.saveFn = func(inner func(context.Context, string, Snapshot) error) func(context.Context, string, Snapshot) error {
		calls := 0
		return func(ctx context.Context, id string, snap Snapshot) error {
			calls++
			if calls == 2 {
				return errors.New("redis blip")
			}
			return inner(ctx, id, snap)
		}
	}(store.saveFn)

	view, err := ctrl.Done(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, view.State)
	assert.Equal(t, "Nice! +10 pts. Total: 10 pts.", view.PointsMessage)
	assert.Contains(t, view.Warning, sessionWarningPrefix)

	_, err = ctrl.Done(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoActiveChallenge)

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
