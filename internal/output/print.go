// Package output renders result sets for the terminal: accession tuples
// one per line, multi-tier tuples comma-joined, extracted fields as
// labeled sections.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/GonzoDMX/srameta/internal/query"
	"github.com/GonzoDMX/srameta/internal/store"
)

// PrintRows writes one tuple per line. Single-tier tuples print bare,
// multi-tier tuples are comma-space joined.
func PrintRows(w io.Writer, rows [][]string) {
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, ", "))
	}
}

// PrintAccessions writes one accession per line.
func PrintAccessions(w io.Writer, accs []string) {
	for _, a := range accs {
		fmt.Fprintln(w, a)
	}
}

// PrintNoMatch reports an empty search result. Not an error; the caller
// keeps going.
func PrintNoMatch(w io.Writer, terms []string) {
	fmt.Fprintf(w, "No submissions match all of the provided terms: %s\n", strings.Join(terms, ", "))
}

// PrintFieldRecords writes each extracted record as an accession header
// followed by a labeled section per requested field.
func PrintFieldRecords(w io.Writer, recs []query.FieldRecord, sel query.FieldSelector) {
	for _, rec := range recs {
		fmt.Fprintln(w, rec.Accession)
		if sel == query.FieldAbstract || sel == query.FieldBoth {
			fmt.Fprintf(w, "  abstract: %s\n", rec.Abstract)
		}
		if sel == query.FieldProtocol || sel == query.FieldBoth {
			fmt.Fprintf(w, "  protocol: %s\n", rec.Protocol)
		}
	}
}

// PrintProvenance writes the metaInfo name/value pairs of a snapshot.
func PrintProvenance(w io.Writer, p store.Provenance) {
	fmt.Fprintln(w, "Snapshot metadata:")
	for _, row := range p {
		fmt.Fprintf(w, "  %s: %s\n", row.Name, row.Value)
	}
}

// PrintSchema writes one column descriptor per line.
func PrintSchema(w io.Writer, cols []store.ColumnInfo) {
	for _, c := range cols {
		notNull := ""
		if c.NotNull {
			notNull = " NOT NULL"
		}
		fmt.Fprintf(w, "%s %s%s\n", c.Name, c.Type, notNull)
	}
}
