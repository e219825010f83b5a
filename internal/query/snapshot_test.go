package query

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/GonzoDMX/srameta/internal/store"
)

// sraColumns mirrors the denormalized sra view of the real snapshot, one
// row per run.
const fixtureSchema = `
CREATE TABLE sra (
	study_accession TEXT,
	experiment_accession TEXT,
	run_accession TEXT,
	experiment_title TEXT,
	study_name TEXT,
	design_description TEXT,
	sample_name TEXT,
	library_strategy TEXT,
	library_construction_protocol TEXT,
	platform TEXT,
	instrument_model TEXT,
	platform_parameters TEXT,
	study_abstract TEXT
);
CREATE TABLE experiment (
	experiment_accession TEXT,
	study_accession TEXT,
	library_construction_protocol TEXT
);
CREATE TABLE sample (
	sample_accession TEXT,
	description TEXT
);
CREATE TABLE metaInfo (name TEXT, value TEXT);
INSERT INTO metaInfo VALUES ('schema version', '1.0');
`

type sraRow struct {
	study, experiment, run string
	strategy, abstract     string
}

// newResolver builds a snapshot from the given rows and returns a Resolver
// over it. Experiment rows are derived from the sra rows; protocol text is
// set per experiment by the protocols map (absent key means NULL).
func newResolver(t *testing.T, rows []sraRow, protocols map[string]string) *Resolver {
	t.Helper()
	path := filepath.Join(t.TempDir(), "SRAmetadb.sqlite")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)

	seenExp := map[string]bool{}
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO sra VALUES (?,?,?,'','','','',?,'','','','',?)`,
			r.study, r.experiment, r.run, r.strategy, r.abstract)
		require.NoError(t, err)

		if !seenExp[r.experiment] {
			seenExp[r.experiment] = true
			var proto any
			if p, ok := protocols[r.experiment]; ok {
				proto = p
			}
			_, err = db.Exec(`INSERT INTO experiment VALUES (?,?,?)`, r.experiment, r.study, proto)
			require.NoError(t, err)
		}
	}

	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return &Resolver{Store: s}
}
