package progress

import (
	"context"
	"errors"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyFirestoreError(t *testing.T) {
	for _, code := range []codes.Code{codes.Unavailable, codes.DeadlineExceeded, codes.Unauthenticated, codes.PermissionDenied} {
		assert.ErrorIs(t, classifyFirestoreError(status.Error(code, "x")), ErrConnection, code.String())
	}
	assert.NotErrorIs(t, classifyFirestoreError(status.Error(codes.AlreadyExists, "x")), ErrConnection)
	assert.NotErrorIs(t, classifyFirestoreError(errors.New("plain")), ErrConnection)
}

// Runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestFirestoreRepositoryEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()

	client, err := firestore.NewClient(ctx, "codequest-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sheet := "progress_" + uuid.NewString()
	repo := NewFirestoreRepository(client, sheet)

	for _, id := range []string{"happy_1", "tired_1", "sad_1"} {
		require.NoError(t, repo.Append(ctx, Entry{Timestamp: "2026-10-18T08:35:00Z", Mood: "m", ChallengeID: id, Points: 5, Title: "t"}))
	}

	// A row written by another tool, without appended_at and with a non-numeric points value.
	_, err = client.Collection(sheet).Doc("zzz-manual").Set(ctx, map[string]any{
		ColumnChallengeID: "manual",
		ColumnPoints:      "lots",
	})
	require.NoError(t, err)

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	entries := EntriesFromRecords(records)
	require.Len(t, entries, 4)

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ChallengeID)
	}
	assert.Equal(t, []string{"happy_1", "tired_1", "sad_1", "manual"}, ids)
	assert.Equal(t, 15, AggregateTotal(entries))
	assert.NoError(t, repo.Close())
}
