package progress

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	Driver   string
	idColumn string
	points   string
	numbered bool
}

var (
	// SQLite stores progress in a local file through modernc.org/sqlite.
	SQLite = Dialect{Driver: "sqlite", idColumn: "id INTEGER PRIMARY KEY AUTOINCREMENT", points: "NUMERIC"}
	// Postgres stores progress in PostgreSQL through lib/pq.
	Postgres = Dialect{Driver: "postgres", idColumn: "id BIGSERIAL PRIMARY KEY", points: "INTEGER", numbered: true}
)

func (d Dialect) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		if d.numbered {
			marks[i] = "$" + strconv.Itoa(i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

var sheetPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type sqlRepository struct {
	db      *sql.DB
	dialect Dialect
	table   string
	owned   bool
}

// NewSQLRepository binds a repository to the table named sheet, creating it when missing.
// The caller keeps ownership of db.
func NewSQLRepository(ctx context.Context, db *sql.DB, dialect Dialect, sheet string) (Repository, error) {
	if !sheetPattern.MatchString(sheet) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSheet, sheet)
	}
	r := &sqlRepository{db: db, dialect: dialect, table: quoteIdent(sheet)}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// OpenSQL opens dsn with the dialect's driver, verifies the connection and returns a
// repository that closes the pool. Connection failures wrap ErrConnection.
func OpenSQL(ctx context.Context, dialect Dialect, dsn, sheet string) (Repository, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrConnection, dialect.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrConnection, dialect.Driver, err)
	}

	repo, err := NewSQLRepository(ctx, db, dialect, sheet)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	repo.(*sqlRepository).owned = true
	return repo, nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func quotedColumns() string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = quoteIdent(c)
	}
	return strings.Join(cols, ", ")
}

func (r *sqlRepository) migrate(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		"timestamp" TEXT NOT NULL,
		"mood" TEXT NOT NULL,
		"challenge_id" TEXT NOT NULL,
		"points" %s,
		"title" TEXT NOT NULL
	)`, r.table, r.dialect.idColumn, r.dialect.points)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return classifySQLError(fmt.Errorf("create progress table: %w", err))
	}
	return nil
}

func (r *sqlRepository) Append(ctx context.Context, entry Entry) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		r.table, quotedColumns(), r.dialect.placeholders(len(Columns)))

	_, err := r.db.ExecContext(ctx, query,
		entry.Timestamp, entry.Mood, entry.ChallengeID, entry.Points, entry.Title,
	)
	if err != nil {
		return classifySQLError(fmt.Errorf("failed to insert progress: %w", err))
	}
	return nil
}

func (r *sqlRepository) ReadAll(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY "id" ASC`, quotedColumns(), r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifySQLError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			timestamp, mood, challengeID, title sql.NullString
			points                              any
		)
		if err := rows.Scan(&timestamp, &mood, &challengeID, &points, &title); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		records = append(records, Record{
			ColumnTimestamp:   timestamp.String,
			ColumnMood:        mood.String,
			ColumnChallengeID: challengeID.String,
			ColumnPoints:      points,
			ColumnTitle:       title.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQLError(err)
	}
	return records, nil
}

func (r *sqlRepository) Close() error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}

// classifySQLError marks lost connections and network failures as ErrConnection.
func classifySQLError(err error) error {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return err
}
