package progress

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const appendedAtField = "appended_at"

// FirestoreConfig selects the project, database and emulator for ConnectFirestore.
type FirestoreConfig struct {
	ProjectID    string
	Database     string
	EmulatorHost string
}

type firestoreRepository struct {
	client *firestore.Client
	sheet  string
	owned  bool
}

// NewFirestoreRepository binds a repository to the collection named sheet. The caller keeps
// ownership of client.
func NewFirestoreRepository(client *firestore.Client, sheet string) Repository {
	return &firestoreRepository{client: client, sheet: sheet}
}

// ConnectFirestore creates a Firestore client and returns a repository that closes it.
// A failure wraps ErrConnection.
func ConnectFirestore(ctx context.Context, cfg FirestoreConfig, sheet string) (Repository, error) {
	if cfg.EmulatorHost != "" {
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.EmulatorHost); err != nil {
			return nil, fmt.Errorf("set FIRESTORE_EMULATOR_HOST: %w", err)
		}
	}

	database := cfg.Database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, database)
	if err != nil {
		return nil, fmt.Errorf("%w: firestore client: %v", ErrConnection, err)
	}
	return &firestoreRepository{client: client, sheet: sheet, owned: true}, nil
}

func (r *firestoreRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.sheet)
}

func (r *firestoreRepository) Append(ctx context.Context, entry Entry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate progress id: %w", err)
	}

	data := map[string]any{
		ColumnTimestamp:   entry.Timestamp,
		ColumnMood:        entry.Mood,
		ColumnChallengeID: entry.ChallengeID,
		ColumnPoints:      entry.Points,
		ColumnTitle:       entry.Title,
		appendedAtField:   firestore.ServerTimestamp,
	}

	if _, err := r.collection().Doc(id.String()).Create(ctx, data); err != nil {
		return classifyFirestoreError(err)
	}
	return nil
}

func (r *firestoreRepository) ReadAll(ctx context.Context) ([]Record, error) {
	// Document ids are UUIDv7, so id order is append order. Ordering by a data field would
	// drop documents that lack it.
	iter := r.collection().
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var records []Record
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classifyFirestoreError(err)
		}

		data := doc.Data()
		rec := Record{}
		for _, col := range Columns {
			if v, ok := data[col]; ok {
				rec[col] = v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *firestoreRepository) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}

// classifyFirestoreError marks transport and credential failures as ErrConnection.
func classifyFirestoreError(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %v", ErrConnection, err)
	default:
		return err
	}
}
