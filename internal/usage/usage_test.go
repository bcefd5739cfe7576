package usage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/codon-optimizer/internal/codon"
)

const cysTable = "amino_acid,codon,relative_frequency\n" +
	"M,ATG,1.0\n" +
	"C,TGT,0.3\n" +
	"C,TGC,0.7\n" +
	"*,TAA,0.5\n" +
	"*,TAG,0.2\n" +
	"*,TGA,0.3\n"

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader(cysTable), ',', "test", codon.Standard())
	require.NoError(t, err)

	assert.Equal(t, "test", tbl.Organism())
	assert.InDelta(t, 0.7, tbl.Weight('C', "TGC"), 1e-9)
	assert.InDelta(t, 0.3/0.7, tbl.Relative('C', "TGT"), 1e-9)
	assert.InDelta(t, 1.0, tbl.Relative('C', "TGC"), 1e-9)
	assert.Equal(t, 0.0, tbl.Relative('G', "GGT"), "absent amino acid scores 0")
	assert.Equal(t, []codon.AminoAcid{'*', 'C', 'M'}, tbl.AminoAcids())
	assert.Equal(t, []codon.Codon{"TGC", "TGT"}, tbl.Codons('C'))
}

func TestParseTable_TSVEmptyCells(t *testing.T) {
	input := "amino_acid\tnote\tcodon\trelative_frequency\n" +
		"M\t\tATG\t1.0\n" +
		"C\t\tTGT\t0.3\n" +
		"C\trare\tTGC\t0.7\n" +
		"*\t\tTAA\t0.5\n" +
		"*\t\tTAG\t0.2\n" +
		"*\t\tTGA\t0.3\n"
	tbl, err := ParseTable(strings.NewReader(input), '\t', "test", codon.Standard())
	require.NoError(t, err)

	assert.InDelta(t, 0.3, tbl.Weight('C', "TGT"), 1e-9)
	assert.InDelta(t, 0.7, tbl.Weight('C', "TGC"), 1e-9)
}

func TestParseTable_Mismatch(t *testing.T) {
	input := "amino_acid,codon,relative_frequency\nC,TGG,0.5\n"
	_, err := ParseTable(strings.NewReader(input), ',', "bad", codon.Standard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTableMismatch))
}

func TestParseTable_NegativeWeight(t *testing.T) {
	input := "amino_acid,codon,relative_frequency\nC,TGT,-0.5\n"
	_, err := ParseTable(strings.NewReader(input), ',', "bad", codon.Standard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNegativeWeight))
}

func TestParseTable_MissingColumns(t *testing.T) {
	_, err := ParseTable(strings.NewReader("codon,freq\nTGT,0.5\n"), ',', "bad", codon.Standard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amino_acid")
}

func TestRanked(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader(cysTable), ',', "test", codon.Standard())
	require.NoError(t, err)
	m := codon.Standard()

	assert.Equal(t, []codon.Codon{"TGC", "TGT"}, tbl.Ranked(m, 'C'))
	assert.Equal(t, []codon.Codon{"TAA", "TGA", "TAG"}, tbl.Ranked(m, codon.Stop))

	// No weights for Gly: all tie at zero, lexicographic order wins.
	assert.Equal(t, []codon.Codon{"GGA", "GGC", "GGG", "GGT"}, tbl.Ranked(m, 'G'))

	best, ok := tbl.Best(m, 'C')
	require.True(t, ok)
	assert.Equal(t, codon.Codon("TGC"), best)

	_, ok = tbl.Best(m, 'X')
	assert.False(t, ok)
}

func TestRanked_TieBreak(t *testing.T) {
	input := "amino_acid,codon,relative_frequency\nR,AGA,0.2\nR,AGG,0.2\nR,CGG,0.2\n"
	tbl, err := ParseTable(strings.NewReader(input), ',', "ties", codon.Standard())
	require.NoError(t, err)

	ranked := tbl.Ranked(codon.Standard(), 'R')
	assert.Equal(t, []codon.Codon{"AGA", "AGG", "CGG", "CGA", "CGC", "CGT"}, ranked)
}

func TestBuiltin(t *testing.T) {
	p := Builtin(codon.Standard())

	assert.Equal(t, []string{"e_coli_316407", "h_sapiens_9606", "m_musculus_10090"}, p.Organisms())

	for _, org := range p.Organisms() {
		t.Run(org, func(t *testing.T) {
			tbl, err := p.Table(org)
			require.NoError(t, err)
			assert.Len(t, tbl.AminoAcids(), 21)
			total := 0
			for _, aa := range tbl.AminoAcids() {
				total += len(tbl.Codons(aa))
			}
			assert.Equal(t, 64, total)
		})
	}

	human, err := p.Table("h_sapiens_9606")
	require.NoError(t, err)
	best, _ := human.Best(codon.Standard(), 'C')
	assert.Equal(t, codon.Codon("TGC"), best)

	again, err := p.Table("h_sapiens_9606")
	require.NoError(t, err)
	assert.Same(t, human, again, "tables are cached")

	_, err = p.Table("nonexistent_0")
	assert.True(t, errors.Is(err, ErrUnknownOrganism))
}

func TestDirProviderAndChain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom_1.csv"), []byte(cysTable), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0644))

	m := codon.Standard()
	dp := NewDirProvider(dir, m)
	assert.Equal(t, []string{"custom_1"}, dp.Organisms())

	tbl, err := dp.Table("custom_1")
	require.NoError(t, err)
	assert.Equal(t, "custom_1", tbl.Organism())

	chain := Chain{dp, Builtin(m)}
	_, err = chain.Table("h_sapiens_9606")
	require.NoError(t, err)
	_, err = chain.Table("custom_1")
	require.NoError(t, err)
	assert.Contains(t, chain.Organisms(), "custom_1")
	assert.Contains(t, chain.Organisms(), "m_musculus_10090")

	_, err = chain.Table("missing")
	assert.True(t, errors.Is(err, ErrUnknownOrganism))
}

func TestDirProvider_Extensions(t *testing.T) {
	dir := t.TempDir()
	tsv := strings.ReplaceAll(cysTable, ",", "\t")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tab_2.tsv"), []byte(tsv), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken_3.csv"), []byte("amino_acid,codon\nM,ATG\n"), 0644))

	dp := NewDirProvider(dir, codon.Standard())

	tbl, err := dp.Table("tab_2")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, tbl.Weight('C', "TGC"), 1e-9)

	_, err = dp.Table("broken_3")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownOrganism))
	assert.Contains(t, err.Error(), "relative_frequency")
}

func TestLoadTable_OrganismFromFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my_org_42.tsv")
	tsv := strings.ReplaceAll(cysTable, ",", "\t")
	require.NoError(t, os.WriteFile(path, []byte(tsv), 0644))

	tbl, err := LoadTable(path, "", codon.Standard())
	require.NoError(t, err)
	assert.Equal(t, "my_org_42", tbl.Organism())
}
