package codon

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Codon
		wantErr bool
	}{
		{"upper", "ATG", "ATG", false},
		{"lowercase atg", "atg", "ATG", false},
		{"mixed case AtG", "AtG", "ATG", false},
		{"RNA uracil", "AUG", "ATG", false},
		{"surrounding space", " TGC ", "TGC", false},
		{"too short", "AT", "", true},
		{"too long", "ATGG", "", true},
		{"invalid bases", "XYZ", "", true},
		{"ambiguous N", "ANG", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCodon))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodonGC(t *testing.T) {
	tests := []struct {
		codon Codon
		want  int
	}{
		{"ATA", 0},
		{"ATG", 1},
		{"TGC", 2},
		{"GCG", 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.codon), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.codon.GC())
		})
	}
}

func TestStandardTranslate(t *testing.T) {
	tests := []struct {
		name  string
		codon Codon
		want  AminoAcid
	}{
		{"ATG -> Met (start)", "ATG", 'M'},
		{"GGT -> Gly", "GGT", 'G'},
		{"TGT -> Cys", "TGT", 'C'},
		{"TGC -> Cys", "TGC", 'C'},
		{"TTT -> Phe", "TTT", 'F'},
		{"TAA -> Stop", "TAA", Stop},
		{"TAG -> Stop", "TAG", Stop},
		{"TGA -> Stop", "TGA", Stop},
	}

	m := Standard()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Translate(tt.codon)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateUnknown(t *testing.T) {
	_, err := Standard().Translate("NNN")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCodon))
}

func TestStandardIsComplete(t *testing.T) {
	m := Standard()
	assert.Equal(t, 64, m.Len())
	for _, c := range AllCodons() {
		_, err := m.Translate(c)
		assert.NoError(t, err, "codon %s", c)
	}
	// 20 amino acids plus stop
	assert.Len(t, m.AminoAcids(), 21)
}

func TestSynonyms(t *testing.T) {
	m := Standard()
	assert.Equal(t, []Codon{"TGC", "TGT"}, m.Synonyms('C'))
	assert.Equal(t, []Codon{"ATG"}, m.Synonyms('M'))
	assert.Equal(t, []Codon{"TAA", "TAG", "TGA"}, m.Synonyms(Stop))
	assert.Equal(t, []Codon{"AGA", "AGG", "CGA", "CGC", "CGG", "CGT"}, m.Synonyms('R'))
	assert.Empty(t, m.Synonyms('X'))
}

func TestSequenceTranslate(t *testing.T) {
	seq := Sequence{"ATG", "GGT", "CGA", "TAA"}
	protein, err := seq.Protein(Standard())
	require.NoError(t, err)
	assert.Equal(t, "MGR*", protein)
	assert.Equal(t, "ATGGGTCGATAA", seq.String())

	_, err = Sequence{"ATG", "NNN"}.Translate(Standard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCodon))
	assert.Contains(t, err.Error(), "codon 2")
}

func TestSplit(t *testing.T) {
	seq, err := Split("ATGTGCTAA")
	require.NoError(t, err)
	assert.Equal(t, Sequence{"ATG", "TGC", "TAA"}, seq)

	_, err = Split("ATGT")
	assert.True(t, errors.Is(err, ErrFrame))

	empty, err := Split("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSequenceCloneIndependent(t *testing.T) {
	seq := Sequence{"ATG", "TGT"}
	cp := seq.Clone()
	cp[1] = "TGC"
	assert.Equal(t, Codon("TGT"), seq[1])
}

func TestParseMap(t *testing.T) {
	input := "codon,aminoacid\n" +
		"ATG,M\n" +
		"TGT,C\n" +
		"TGC,C\n" +
		"TAA,s\n" +
		"TGA,*\n"

	m, err := ParseMap(strings.NewReader(input), ',', DefaultStopSymbol)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Len())

	aa, err := m.Translate("TAA")
	require.NoError(t, err)
	assert.Equal(t, Stop, aa)

	aa, err = m.Translate("TGA")
	require.NoError(t, err)
	assert.Equal(t, Stop, aa)

	assert.Equal(t, []Codon{"TGC", "TGT"}, m.Synonyms('C'))
}

func TestParseMap_TSVEmptyCells(t *testing.T) {
	input := "\tcodon\tname\taminoacid\n" +
		"0\tATG\t\tM\n" +
		"1\tTGT\tCys\tC\n" +
		"2\tTAA\t\ts\n"

	m, err := ParseMap(strings.NewReader(input), '\t', DefaultStopSymbol)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	aa, err := m.Translate("ATG")
	require.NoError(t, err)
	assert.Equal(t, AminoAcid('M'), aa)

	aa, err = m.Translate("TAA")
	require.NoError(t, err)
	assert.Equal(t, Stop, aa)
}

func TestParseMap_MissingColumn(t *testing.T) {
	_, err := ParseMap(strings.NewReader("codon,name\nATG,Met\n"), ',', DefaultStopSymbol)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aminoacid")
}

func TestParseMap_BadCodon(t *testing.T) {
	_, err := ParseMap(strings.NewReader("codon\taminoacid\nATGX\tM\n"), '\t', DefaultStopSymbol)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCodon))
}
