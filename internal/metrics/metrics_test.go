package metrics

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/codon-optimizer/internal/codon"
)

func TestEvaluate_Example(t *testing.T) {
	generated := codon.Sequence{"ATG", "TGC", "TAA"}
	reference := codon.Sequence{"ATG", "TGT", "TAA"}

	r, err := Evaluate(generated, reference)
	require.NoError(t, err)

	assert.Equal(t, 66.67, r.CodonMatch)
	// 8 of 9 nucleotides match (TGC vs TGT differs at the third base).
	assert.Equal(t, 88.89, r.NucleotideMatch)
	// ATG TGC TAA: G, G, C -> 3 of 9.
	assert.Equal(t, 33.33, r.GC)
}

func TestCodonMatchRatio(t *testing.T) {
	tests := []struct {
		name string
		gen  codon.Sequence
		ref  codon.Sequence
		want float64
	}{
		{"identical", codon.Sequence{"ATG", "AAA"}, codon.Sequence{"ATG", "AAA"}, 100},
		{"none", codon.Sequence{"AAA", "CCC"}, codon.Sequence{"GGG", "TTT"}, 0},
		{"half", codon.Sequence{"ATG", "AAA"}, codon.Sequence{"ATG", "AAG"}, 50},
		{"one third", codon.Sequence{"ATG", "AAA", "CCC"}, codon.Sequence{"ATG", "AAG", "CCG"}, 33.33},
		{"empty", codon.Sequence{}, codon.Sequence{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CodonMatchRatio(tt.gen, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNucleotideMatchRatio(t *testing.T) {
	tests := []struct {
		name string
		gen  codon.Sequence
		ref  codon.Sequence
		want float64
	}{
		{"identical", codon.Sequence{"ATG", "AAA"}, codon.Sequence{"ATG", "AAA"}, 100},
		{"all differ", codon.Sequence{"AAA"}, codon.Sequence{"CCC"}, 0},
		{"synonymous third base", codon.Sequence{"CTG", "CTC"}, codon.Sequence{"CTA", "CTC"}, 83.33},
		{"counts matches not mismatches", codon.Sequence{"AAA"}, codon.Sequence{"AAC"}, 66.67},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NucleotideMatchRatio(tt.gen, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLengthMismatch(t *testing.T) {
	gen := codon.Sequence{"ATG"}
	ref := codon.Sequence{"ATG", "TAA"}

	_, err := CodonMatchRatio(gen, ref)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = NucleotideMatchRatio(gen, ref)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = Evaluate(gen, ref)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestFullNucleotideMatchImpliesFullCodonMatch(t *testing.T) {
	seqs := []codon.Sequence{
		{"ATG", "GCC", "TGA"},
		{"TTT"},
		{"CGC", "CGG", "AGA", "AGG"},
	}
	for _, s := range seqs {
		nm, err := NucleotideMatchRatio(s, s.Clone())
		require.NoError(t, err)
		cm, err := CodonMatchRatio(s, s.Clone())
		require.NoError(t, err)
		assert.Equal(t, 100.0, nm)
		assert.Equal(t, 100.0, cm)
	}
}

func TestFullNucleotideMatchLongSequence(t *testing.T) {
	gen := make(codon.Sequence, 7000)
	for i := range gen {
		gen[i] = "GCC"
	}
	ref := gen.Clone()
	ref[3500] = "GCA"

	nm, err := NucleotideMatchRatio(gen, ref)
	require.NoError(t, err)
	cm, err := CodonMatchRatio(gen, ref)
	require.NoError(t, err)
	assert.Equal(t, 99.99, nm, "one mismatched base is not a full match")
	assert.Equal(t, 99.99, cm)

	nm, err = NucleotideMatchRatio(gen, gen.Clone())
	require.NoError(t, err)
	assert.Equal(t, 100.0, nm)
}

func TestGCRatio(t *testing.T) {
	tests := []struct {
		name string
		seq  codon.Sequence
		want float64
	}{
		{"empty", nil, 0},
		{"all AT", codon.Sequence{"ATA", "TTT"}, 0},
		{"all GC", codon.Sequence{"GCG", "CCC"}, 100},
		{"mixed", codon.Sequence{"ATG", "TGC"}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GCRatio(tt.seq))
		})
	}
}

func TestWindowGC(t *testing.T) {
	// AAA GGG: windows of 3 range from 0% to 100%.
	lo, hi := WindowGC(codon.Sequence{"AAA", "GGG"}, 3)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 100.0, hi)

	// Window wider than the strand collapses to a single window.
	lo, hi = WindowGC(codon.Sequence{"AAA", "GGG"}, 120)
	assert.Equal(t, 50.0, lo)
	assert.Equal(t, 50.0, hi)

	lo, hi = WindowGC(nil, 6)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.0, hi)
}

func TestWindowGCProfile(t *testing.T) {
	assert.Equal(t, []float64{0, 33.33, 66.67, 100}, WindowGCProfile(codon.Sequence{"AAA", "GGG"}, 3))
	assert.Equal(t, []float64{50}, WindowGCProfile(codon.Sequence{"AAA", "GGG"}, 120))
	assert.Nil(t, WindowGCProfile(nil, 6))

	seq := codon.Sequence{"ATG", "GCC", "TTA", "CGG"}
	prof := WindowGCProfile(seq, 5)
	require.Len(t, prof, 12-5+1)
	lo, hi := WindowGC(seq, 5)
	assert.Equal(t, lo, slices.Min(prof))
	assert.Equal(t, hi, slices.Max(prof))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 0.0, Round2(0))
}
