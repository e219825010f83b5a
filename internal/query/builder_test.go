package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTermQuery(t *testing.T) {
	sql, args, err := BuildTermQuery([]string{"RNA-Seq", "Illumina"}, []Tier{TierRun})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(sql, "SELECT DISTINCT run_accession FROM sra WHERE "))
	// One placeholder per term per searched column.
	require.Equal(t, 2*len(searchColumns), strings.Count(sql, "?"))
	require.Len(t, args, 2*len(searchColumns))
	require.Equal(t, "%RNA-Seq%", args[0])
	require.Equal(t, "%Illumina%", args[len(searchColumns)])
	// AND across term groups, OR within one.
	require.Equal(t, 1, strings.Count(sql, ") AND ("))
}

func TestBuildTermQueryMultiTier(t *testing.T) {
	sql, _, err := BuildTermQuery([]string{"x"}, []Tier{TierStudy, TierRun})
	require.NoError(t, err)
	require.Contains(t, sql, "SELECT DISTINCT study_accession, run_accession FROM sra")

	_, _, err = BuildTermQuery([]string{"x"}, []Tier{TierStudy, TierExperiment, TierRun})
	require.NoError(t, err)
}

func TestBuildTermQueryTierBounds(t *testing.T) {
	_, _, err := BuildTermQuery([]string{"x"}, []Tier{TierRun, TierRun, TierRun, TierRun})
	require.ErrorIs(t, err, ErrTooManyTiers)

	_, _, err = BuildTermQuery([]string{"x"}, nil)
	require.ErrorIs(t, err, ErrNoTiers)
}

func TestBuildTermQueryEmptyGroup(t *testing.T) {
	_, _, err := BuildTermQuery(nil, []Tier{TierRun})
	require.ErrorIs(t, err, ErrEmptyTermGroup)

	// Whitespace-only terms must not turn into a match-everything query.
	_, _, err = BuildTermQuery([]string{" ", ""}, []Tier{TierRun})
	require.ErrorIs(t, err, ErrEmptyTermGroup)
}

func TestBuildTermQueryEscapesWildcards(t *testing.T) {
	_, args, err := BuildTermQuery([]string{"100%_mix"}, []Tier{TierRun})
	require.NoError(t, err)
	require.Equal(t, `%100\%\_mix%`, args[0])

	_, args, err = BuildTermQuery([]string{`back\slash`}, []Tier{TierRun})
	require.NoError(t, err)
	require.Equal(t, `%back\\slash%`, args[0])
}

func TestParseTiers(t *testing.T) {
	tiers, err := ParseTiers("study, run")
	require.NoError(t, err)
	require.Equal(t, []Tier{TierStudy, TierRun}, tiers)

	// Duplicates collapse, first position wins.
	tiers, err = ParseTiers("run,run,study")
	require.NoError(t, err)
	require.Equal(t, []Tier{TierRun, TierStudy}, tiers)

	_, err = ParseTiers("srr")
	require.ErrorIs(t, err, ErrUnknownTier)

	_, err = ParseTiers("")
	require.ErrorIs(t, err, ErrNoTiers)
}
