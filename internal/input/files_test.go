package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSplitTerms(t *testing.T) {
	require.Equal(t, []string{"NA12878", "Illumina platform", "reagent"},
		SplitTerms("NA12878, Illumina platform , reagent"))
	require.Nil(t, SplitTerms(" , ,"))
	require.Nil(t, SplitTerms(""))
}

func TestReadTermGroups(t *testing.T) {
	path := writeFile(t, "RNA-Seq, liver\nWGS\n\n  \nmouse, brain, cortex\n")

	groups, err := ReadTermGroups(path)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"RNA-Seq", "liver"},
		{"WGS"},
		{"mouse", "brain", "cortex"},
	}, groups)
}

func TestReadAccessionsMixedFormats(t *testing.T) {
	path := writeFile(t, "SRX1\nSRX2, SRX3\nSRX4,SRX5\n")

	accs, err := ReadAccessions(path)
	require.NoError(t, err)
	require.Equal(t, []string{"SRX1", "SRX2", "SRX3", "SRX4", "SRX5"}, accs)
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadTermGroups(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestIsFile(t *testing.T) {
	path := writeFile(t, "x")
	require.True(t, IsFile(path))
	require.False(t, IsFile(filepath.Dir(path)))
	require.False(t, IsFile("RNA-Seq, liver"))
}
