package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/GonzoDMX/srameta/internal/input"
	"github.com/GonzoDMX/srameta/internal/store"
)

// Resolver evaluates term groups against the snapshot and resolves the
// matching accessions at the requested tiers.
type Resolver struct {
	Store *store.Store
}

// GroupMatches holds the result of one independent term-group search.
type GroupMatches struct {
	Terms []string
	Rows  [][]string
}

// Resolve evaluates a single term group and returns the matching tuples,
// projected onto tiers, in the order the snapshot produced them.
func (r *Resolver) Resolve(ctx context.Context, terms []string, tiers []Tier) ([][]string, error) {
	sql, args, err := BuildTermQuery(terms, tiers)
	if err != nil {
		return nil, err
	}
	return r.Store.Execute(ctx, sql, args...)
}

// ResolveFile evaluates each line of a term-group file as its own
// independent search. Results are NOT deduplicated across lines; two lines
// matching the same run both report it.
func (r *Resolver) ResolveFile(ctx context.Context, path string, tiers []Tier) ([]GroupMatches, error) {
	groups, err := input.ReadTermGroups(path)
	if err != nil {
		return nil, err
	}

	out := make([]GroupMatches, 0, len(groups))
	for _, terms := range groups {
		rows, err := r.Resolve(ctx, terms, tiers)
		if err != nil {
			return nil, fmt.Errorf("terms %v: %w", terms, err)
		}
		out = append(out, GroupMatches{Terms: terms, Rows: rows})
	}
	return out, nil
}

// ResolveWithProtocol runs the two-phase cascade: resolve the study tier
// for the terms, then for each distinct study (first-seen order) collect
// the experiments under it that carry library construction protocol text.
// The combined experiment list is deduplicated preserving discovery order.
func (r *Resolver) ResolveWithProtocol(ctx context.Context, terms []string) ([]string, error) {
	rows, err := r.Resolve(ctx, terms, []Tier{TierStudy})
	if err != nil {
		return nil, err
	}

	studies := dedup(firstColumn(rows))

	const perStudy = `
SELECT experiment_accession FROM experiment
WHERE study_accession = ? AND library_construction_protocol IS NOT NULL`

	var experiments []string
	seen := map[string]bool{}
	for _, study := range studies {
		rows, err := r.Store.Execute(ctx, perStudy, study)
		if err != nil {
			return nil, fmt.Errorf("study %s: %w", study, err)
		}
		for _, acc := range firstColumn(rows) {
			if !seen[acc] {
				seen[acc] = true
				experiments = append(experiments, acc)
			}
		}
	}
	return experiments, nil
}

// ProtocolSubmissions lists every experiment whose library construction
// protocol mentions kit or reagent text, the usual markers of a filled-in
// protocol field.
func (r *Resolver) ProtocolSubmissions(ctx context.Context) ([]string, error) {
	const q = `
SELECT experiment_accession FROM experiment
WHERE library_construction_protocol LIKE ? OR library_construction_protocol LIKE ?`

	rows, err := r.Store.Execute(ctx, q, "% kit %", "% reagent %")
	if err != nil {
		return nil, err
	}
	return firstColumn(rows), nil
}

// SampleDescription returns the free-text description of a sample accession.
func (r *Resolver) SampleDescription(ctx context.Context, accession string) (string, error) {
	rows, err := r.Store.Execute(ctx,
		`SELECT description FROM sample WHERE sample_accession = ?`, accession)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0][0], nil
}

// dedup removes duplicates preserving first-seen order.
func dedup(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func firstColumn(rows [][]string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[0])
	}
	return out
}

// KeywordTag flattens a term group into the tag stored alongside saved
// matches in the auxiliary terms table.
func KeywordTag(terms []string) string {
	return strings.Join(terms, ", ")
}
