package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pfgrants/internal/adapters/driven/tables/rows"
	"github.com/custodia-labs/pfgrants/internal/adapters/driven/tables/sqlite/migrations"
	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
)

// Table names created by the embedded migrations.
const (
	FilersTable     = "donors"
	RecipientsTable = "recipients"
)

// Ensure Writer implements the interface.
var _ driven.TableWriter = (*Writer)(nil)

// Writer is a SQLite-backed driven.TableWriter.
type Writer struct {
	db   *sql.DB
	path string
}

// DefaultPath returns ~/.pfgrants/data/grants.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".pfgrants", "data", "grants.db"), nil
}

// NewWriter opens the database at path, creating its directory if needed.
// If path is empty, DefaultPath is used.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Writer{db: db, path: path}, nil
}

// NewBuilder returns a driven.TableWriterBuilder for the sqlite sink.
func NewBuilder() driven.TableWriterBuilder {
	return func(_ context.Context, settings domain.Settings) (driven.TableWriter, error) {
		return NewWriter(settings.SQLite.Path)
	}
}

// Path returns the database file path.
func (w *Writer) Path() string {
	return w.path
}

// FilersTable returns the filer table name.
func (w *Writer) FilersTable() string {
	return FilersTable
}

// RecipientsTable returns the recipient table name.
func (w *Writer) RecipientsTable() string {
	return RecipientsTable
}

// Close closes the database connection.
func (w *Writer) Close() error {
	return w.db.Close()
}

// EnsureTables runs all pending migrations.
func (w *Writer) EnsureTables(ctx context.Context) error {
	if err := w.migrate(ctx, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// WriteFilers inserts filers in one transaction.
func (w *Writer) WriteFilers(ctx context.Context, filers []domain.FilerRecord) error {
	if err := w.insert(ctx, FilersTable, domain.FilerColumns, rows.Filers(filers)); err != nil {
		return &domain.TableWriteError{Table: FilersTable, Err: err}
	}
	return nil
}

// WriteRecipients inserts recipients in one transaction.
// Nothing is inserted if any amount is not a whole number.
func (w *Writer) WriteRecipients(ctx context.Context, recipients []domain.RecipientRecord) error {
	values, err := rows.Recipients(RecipientsTable, recipients)
	if err != nil {
		return &domain.TableWriteError{Table: RecipientsTable, Err: err}
	}
	if err := w.insert(ctx, RecipientsTable, domain.RecipientColumns, values); err != nil {
		return &domain.TableWriteError{Table: RecipientsTable, Err: err}
	}
	return nil
}

// insert appends values to table inside a single transaction.
func (w *Writer) insert(ctx context.Context, table string, cols []domain.Column, values [][]any) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertStatement(table, cols))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range values {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertStatement(table string, cols []domain.Column) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(domain.ColumnNames(cols), ", "), placeholders)
}

// migrate runs all pending up migrations in version order.
func (w *Writer) migrate(ctx context.Context, fsys fs.FS) error {
	_, err := w.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := w.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_tables.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := w.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
