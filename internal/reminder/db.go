package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DB provides SQLite-backed storage for reminders. It is the durable side
// of the persistence gateway and satisfies session.Gateway directly.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// OpenDB opens (or creates) the SQLite database at dbPath and
// ensures the reminders table exists.
func OpenDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps ":memory:" stable.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			text       TEXT    NOT NULL,
			done       INTEGER NOT NULL DEFAULT 0,
			created_at TEXT    NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	// Tables written by the first release have no created_at column.
	has, err := hasColumn(db, "reminders", "created_at")
	if err != nil {
		return err
	}
	if !has {
		if _, err := db.Exec(`ALTER TABLE reminders ADD COLUMN created_at TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("failed to add created_at column: %w", err)
		}
	}
	return nil
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("failed to scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Create inserts a new undone reminder and returns its ID.
func (d *DB) Create(ctx context.Context, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: text is required", ErrValidation)
	}

	createdAt := d.now().UTC().Format(time.RFC3339Nano)
	result, err := d.db.ExecContext(ctx, `
		INSERT INTO reminders (text, done, created_at) VALUES (?, 0, ?)
	`, text, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted ID: %w", err)
	}
	return id, nil
}

// List returns every reminder in id order.
func (d *DB) List(ctx context.Context) ([]Reminder, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, text, done, created_at FROM reminders ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// SetDone updates the done flag of a reminder.
func (d *DB) SetDone(ctx context.Context, id int64, done bool) error {
	result, err := d.db.ExecContext(ctx, `
		UPDATE reminders SET done = ? WHERE id = ?
	`, boolToInt(done), id)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes a reminder by ID.
func (d *DB) Delete(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// Counts returns the number of stored reminders and how many are done.
func (d *DB) Counts(ctx context.Context) (total, done int, err error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(done), 0) FROM reminders
	`)
	if err := row.Scan(&total, &done); err != nil {
		return 0, 0, fmt.Errorf("failed to count reminders: %w", err)
	}
	return total, done, nil
}

func scan(rows *sql.Rows) (*Reminder, error) {
	var (
		r         Reminder
		done      int
		createdAt string
	)
	if err := rows.Scan(&r.ID, &r.Text, &done, &createdAt); err != nil {
		return nil, err
	}
	r.Done = done != 0
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &r, nil
}

// scanReminders reads multiple rows into a slice of Reminder.
func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	reminders := []Reminder{}
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
