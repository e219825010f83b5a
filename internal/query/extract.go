package query

import (
	"context"
	"fmt"
)

// FieldSelector picks which long-text fields to extract per accession.
type FieldSelector string

const (
	FieldAbstract FieldSelector = "abstract"
	FieldProtocol FieldSelector = "protocol"
	FieldBoth     FieldSelector = "both"
)

// ParseFieldSelector validates a user-supplied selector string.
func ParseFieldSelector(s string) (FieldSelector, error) {
	switch FieldSelector(s) {
	case FieldAbstract, FieldProtocol, FieldBoth:
		return FieldSelector(s), nil
	}
	return "", fmt.Errorf("unknown field selector %q (want abstract, protocol or both)", s)
}

// FieldRecord is the extracted text for one experiment accession. Only the
// requested fields are populated.
type FieldRecord struct {
	Accession string
	Abstract  string
	Protocol  string
}

// fieldQueries maps a selector to its per-accession lookup. Protocol comes
// from the experiment relation, abstract from the denormalized sra view;
// "both" reads the sra view which carries both columns.
var fieldQueries = map[FieldSelector]string{
	FieldAbstract: `SELECT DISTINCT study_abstract FROM sra WHERE experiment_accession = ?`,
	FieldProtocol: `SELECT library_construction_protocol FROM experiment WHERE experiment_accession = ?`,
	FieldBoth:     `SELECT DISTINCT study_abstract, library_construction_protocol FROM sra WHERE experiment_accession = ?`,
}

// ExtractFields looks up the selected fields for each accession with one
// parameterized query per accession. Input order is preserved and repeated
// accessions yield repeated records; an accession with no row contributes
// nothing (callers wanting presence checks diff input against output).
func (r *Resolver) ExtractFields(ctx context.Context, accessions []string, sel FieldSelector) ([]FieldRecord, error) {
	q, ok := fieldQueries[sel]
	if !ok {
		return nil, fmt.Errorf("unknown field selector %q", sel)
	}

	var out []FieldRecord
	for _, acc := range accessions {
		rows, err := r.Store.Execute(ctx, q, acc)
		if err != nil {
			return nil, fmt.Errorf("accession %s: %w", acc, err)
		}
		if len(rows) == 0 {
			continue
		}

		rec := FieldRecord{Accession: acc}
		switch sel {
		case FieldAbstract:
			rec.Abstract = rows[0][0]
		case FieldProtocol:
			rec.Protocol = rows[0][0]
		case FieldBoth:
			rec.Abstract = rows[0][0]
			rec.Protocol = rows[0][1]
		}
		out = append(out, rec)
	}
	return out, nil
}
