package query

import (
	"fmt"
	"strings"
)

// Tier is one of the three accession levels of the SRA hierarchy.
type Tier string

const (
	TierRun        Tier = "run"
	TierExperiment Tier = "experiment"
	TierStudy      Tier = "study"
)

// maxTiers bounds the projection; there are exactly three accession levels
// and anything past that would be an ambiguous projection.
const maxTiers = 3

// tierColumns maps each tier to its column in the denormalized sra view.
var tierColumns = map[Tier]string{
	TierRun:        "run_accession",
	TierExperiment: "experiment_accession",
	TierStudy:      "study_accession",
}

// searchColumns are the ten free-text columns a term is matched against.
var searchColumns = []string{
	"experiment_title",
	"study_name",
	"design_description",
	"sample_name",
	"library_strategy",
	"library_construction_protocol",
	"platform",
	"instrument_model",
	"platform_parameters",
	"study_abstract",
}

// ParseTiers turns a comma-separated tier spec ("run", "study,run") into an
// ordered, deduplicated tier list.
func ParseTiers(spec string) ([]Tier, error) {
	var tiers []Tier
	seen := map[Tier]bool{}
	for _, part := range strings.Split(spec, ",") {
		name := Tier(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if _, ok := tierColumns[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTier, name)
		}
		if !seen[name] {
			seen[name] = true
			tiers = append(tiers, name)
		}
	}
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}
	return tiers, nil
}

// escapeLike neutralizes LIKE metacharacters in a user term so the term is
// always matched literally. Pairs with ESCAPE '\' in the predicate.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// BuildTermQuery compiles a term group into a SELECT DISTINCT over the sra
// view: OR across the ten text columns per term, AND across terms. Terms
// are bound as placeholders, never interpolated into the SQL text.
func BuildTermQuery(terms []string, tiers []Tier) (string, []any, error) {
	var clean []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return "", nil, ErrEmptyTermGroup
	}

	if len(tiers) == 0 {
		return "", nil, ErrNoTiers
	}
	if len(tiers) > maxTiers {
		return "", nil, fmt.Errorf("%w: %d requested, max %d", ErrTooManyTiers, len(tiers), maxTiers)
	}

	proj := make([]string, len(tiers))
	for i, tier := range tiers {
		col, ok := tierColumns[tier]
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
		}
		proj[i] = col
	}

	var sb strings.Builder
	var args []any
	sb.WriteString("SELECT DISTINCT ")
	sb.WriteString(strings.Join(proj, ", "))
	sb.WriteString(" FROM sra WHERE ")

	for i, term := range clean {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString("(")
		pattern := "%" + escapeLike(term) + "%"
		for j, col := range searchColumns {
			if j > 0 {
				sb.WriteString(" OR ")
			}
			sb.WriteString(col)
			sb.WriteString(` LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		sb.WriteString(")")
	}

	return sb.String(), args, nil
}
