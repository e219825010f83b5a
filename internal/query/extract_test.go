package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func extractFixture(t *testing.T) *Resolver {
	t.Helper()
	return newResolver(t, []sraRow{
		{study: "SRP1", experiment: "SRX1", run: "SRR1", abstract: "liver transcriptome survey"},
		{study: "SRP2", experiment: "SRX2", run: "SRR2", abstract: "brain methylome"},
	}, map[string]string{
		"SRX1": "kit reagent protocol X",
	})
}

func TestExtractProtocol(t *testing.T) {
	r := extractFixture(t)

	recs, err := r.ExtractFields(context.Background(), []string{"SRX1"}, FieldProtocol)
	require.NoError(t, err)
	require.Equal(t, []FieldRecord{{Accession: "SRX1", Protocol: "kit reagent protocol X"}}, recs)
}

func TestExtractAbstract(t *testing.T) {
	r := extractFixture(t)

	recs, err := r.ExtractFields(context.Background(), []string{"SRX2"}, FieldAbstract)
	require.NoError(t, err)
	require.Equal(t, []FieldRecord{{Accession: "SRX2", Abstract: "brain methylome"}}, recs)
}

func TestExtractBoth(t *testing.T) {
	r := extractFixture(t)

	recs, err := r.ExtractFields(context.Background(), []string{"SRX1"}, FieldBoth)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "liver transcriptome survey", recs[0].Abstract)
	// Fixture sra rows carry no protocol text; only the experiment
	// relation does, and "both" reads the denormalized view.
	require.Equal(t, "SRX1", recs[0].Accession)
}

func TestExtractMissingAccessionSkipped(t *testing.T) {
	r := extractFixture(t)

	recs, err := r.ExtractFields(context.Background(), []string{"SRX404"}, FieldProtocol)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestExtractPreservesOrderAndDuplicates(t *testing.T) {
	r := extractFixture(t)

	recs, err := r.ExtractFields(context.Background(),
		[]string{"SRX2", "SRX1", "SRX2"}, FieldAbstract)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, "SRX2", recs[0].Accession)
	require.Equal(t, "SRX1", recs[1].Accession)
	require.Equal(t, "SRX2", recs[2].Accession)
}

func TestParseFieldSelector(t *testing.T) {
	for _, ok := range []string{"abstract", "protocol", "both"} {
		sel, err := ParseFieldSelector(ok)
		require.NoError(t, err)
		require.Equal(t, FieldSelector(ok), sel)
	}

	_, err := ParseFieldSelector("everything")
	require.Error(t, err)
}
