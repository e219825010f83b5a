package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store owns the connection to a local SRA metadata snapshot. It is opened
// by a single process for its own lifetime; concurrent read/write access to
// the same file from another process is undefined.
type Store struct {
	db     *sql.DB
	path   string
	closed bool
}

// OpenState tells the caller how an open attempt resolved, so the decision
// about downloading or re-prompting stays out of the core.
type OpenState int

const (
	// Opened means the snapshot was found and the connection is live.
	Opened OpenState = iota
	// NeedsAcquisition means no snapshot file exists at the given path.
	NeedsAcquisition
	// NeedsPathInput means a file exists but could not be opened as SQLite.
	NeedsPathInput
)

// Open connects to an existing snapshot file in read-write mode.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, wrapError("open", fmt.Errorf("%w: %s", ErrStoreUnavailable, path))
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=rw", path))
	if err != nil {
		return nil, wrapError("open", fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
	}
	// sql.Open is lazy; force the file open now so a bad path fails here.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrapError("open", fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
	}

	return &Store{db: db, path: path}, nil
}

// Resolve reports how an open attempt at path would go, without any
// interactive behavior. A missing file means the snapshot still has to be
// acquired; an unreadable file means the caller should ask for another path.
func Resolve(path string) (OpenState, *Store) {
	if _, err := os.Stat(path); err != nil {
		return NeedsAcquisition, nil
	}
	s, err := Open(path)
	if err != nil {
		return NeedsPathInput, nil
	}
	return Opened, s
}

// Path returns the snapshot file backing this store.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Execute runs a parameterized query and returns all rows as strings, in
// the order the database produced them. NULL columns come back as "".
func (s *Store) Execute(ctx context.Context, query string, args ...any) ([][]string, error) {
	if s.closed {
		return nil, wrapError("execute", ErrStoreClosed)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("execute", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// ExecuteRaw runs caller-supplied SQL with no parameter binding. The caller
// is responsible for the injection-safety of the text it passes in.
func (s *Store) ExecuteRaw(ctx context.Context, query string) ([][]string, error) {
	if s.closed {
		return nil, wrapError("query", ErrStoreClosed)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapError("query", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// collectRows scans every row into a string tuple, mapping NULL to "".
func collectRows(rows *sql.Rows) ([][]string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, wrapError("scan", err)
	}

	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, wrapError("scan", err)
		}
		tuple := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				tuple[i] = c.String
			}
		}
		out = append(out, tuple)
	}
	return out, rows.Err()
}

// ListTables returns the names of all tables in the snapshot.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.Execute(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r[0])
	}
	return names, nil
}

// ColumnInfo describes one column of a snapshot table.
type ColumnInfo struct {
	Name    string
	Type    string
	NotNull bool
}

// TableSchema returns the column descriptors for name, in declaration order.
// The name is checked against the table list first, which also keeps
// unvetted text out of the PRAGMA (it cannot be parameterized).
func (s *Store) TableSchema(ctx context.Context, name string) ([]ColumnInfo, error) {
	tables, err := s.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	known := false
	for _, t := range tables {
		if t == name {
			known = true
			break
		}
	}
	if !known {
		return nil, wrapError("schema", fmt.Errorf("%w: %s", ErrUnknownTable, name))
	}

	rows, err := s.ExecuteRaw(ctx, fmt.Sprintf("PRAGMA table_info(%q)", name))
	if err != nil {
		return nil, err
	}

	cols := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		// cid, name, type, notnull, dflt_value, pk
		cols = append(cols, ColumnInfo{
			Name:    r[1],
			Type:    r[2],
			NotNull: r[3] == "1",
		})
	}
	return cols, nil
}

// MetaRow is one name/value pair from the snapshot's metaInfo table.
type MetaRow struct {
	Name  string
	Value string
}

// Provenance describes which build of the metadata corpus this file is.
type Provenance []MetaRow

// Provenance reads the snapshot's metaInfo table.
func (s *Store) Provenance(ctx context.Context) (Provenance, error) {
	rows, err := s.Execute(ctx, `SELECT name, value FROM metaInfo`)
	if err != nil {
		return nil, wrapError("provenance", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
	}

	p := make(Provenance, 0, len(rows))
	for _, r := range rows {
		p = append(p, MetaRow{Name: r[0], Value: r[1]})
	}
	return p, nil
}

// termsTableSQL is the only relation the store ever creates itself.
const termsTableSQL = `
CREATE TABLE IF NOT EXISTS terms (
    accession TEXT PRIMARY KEY,
    keyword TEXT
);`

// SaveTermMatches upserts each accession into the auxiliary terms table,
// tagged with the keyword group that matched it. Every row is committed
// independently, so a crash mid-batch leaves a valid partial table.
func (s *Store) SaveTermMatches(ctx context.Context, keyword string, accessions []string) error {
	if s.closed {
		return wrapError("save", ErrStoreClosed)
	}

	if _, err := s.db.ExecContext(ctx, termsTableSQL); err != nil {
		return wrapError("save", err)
	}

	const upsert = `
INSERT INTO terms (accession, keyword) VALUES (?, ?)
ON CONFLICT(accession) DO UPDATE SET keyword = excluded.keyword`

	for _, acc := range accessions {
		if _, err := s.db.ExecContext(ctx, upsert, acc, keyword); err != nil {
			return wrapError("save", fmt.Errorf("accession %s: %w", acc, err))
		}
	}
	return nil
}
