// Package metrics compares generated coding sequences against a reference.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/inodb/codon-optimizer/internal/codon"
)

// ErrLengthMismatch is returned when compared sequences differ in length.
var ErrLengthMismatch = errors.New("sequence length mismatch")

// Result is a snapshot of the comparison metrics, as percentages.
type Result struct {
	CodonMatch      float64
	NucleotideMatch float64
	GC              float64
}

// Evaluate computes all metrics for generated against reference.
func Evaluate(generated, reference codon.Sequence) (Result, error) {
	cm, err := CodonMatchRatio(generated, reference)
	if err != nil {
		return Result{}, err
	}
	nm, err := NucleotideMatchRatio(generated, reference)
	if err != nil {
		return Result{}, err
	}
	return Result{
		CodonMatch:      cm,
		NucleotideMatch: nm,
		GC:              GCRatio(generated),
	}, nil
}

// CodonMatchRatio returns the percentage of positions with identical codons.
// Empty sequences score 0.
func CodonMatchRatio(generated, reference codon.Sequence) (float64, error) {
	if err := checkLengths(generated, reference); err != nil {
		return 0, err
	}
	if len(generated) == 0 {
		return 0, nil
	}
	match := 0
	for i := range generated {
		if generated[i] == reference[i] {
			match++
		}
	}
	return percent(match, len(generated)), nil
}

// NucleotideMatchRatio returns the percentage of identical nucleotides over
// 3 x codon count comparisons. Empty sequences score 0.
func NucleotideMatchRatio(generated, reference codon.Sequence) (float64, error) {
	if err := checkLengths(generated, reference); err != nil {
		return 0, err
	}
	if len(generated) == 0 {
		return 0, nil
	}
	match := 0
	for i := range generated {
		g, r := generated[i], reference[i]
		for j := 0; j < 3 && j < len(g) && j < len(r); j++ {
			if g[j] == r[j] {
				match++
			}
		}
	}
	return percent(match, 3*len(generated)), nil
}

// GCRatio returns (G+C) / (3 x codon count) as a percentage. An empty
// sequence has a GC ratio of 0.
func GCRatio(seq codon.Sequence) float64 {
	if len(seq) == 0 {
		return 0
	}
	return percent(seq.GC(), 3*len(seq))
}

// WindowGC returns the lowest and highest GC percentage over every window of
// width nucleotides. A strand shorter than the window is one window.
func WindowGC(seq codon.Sequence, width int) (lo, hi float64) {
	strand := seq.String()
	n := len(strand)
	if n == 0 {
		return 0, 0
	}
	if width <= 0 || width > n {
		width = n
	}

	gc := 0
	for i := 0; i < width; i++ {
		if codon.IsGC(strand[i]) {
			gc++
		}
	}
	minGC, maxGC := gc, gc
	for i := width; i < n; i++ {
		if codon.IsGC(strand[i]) {
			gc++
		}
		if codon.IsGC(strand[i-width]) {
			gc--
		}
		minGC = min(minGC, gc)
		maxGC = max(maxGC, gc)
	}
	return percent(minGC, width), percent(maxGC, width)
}

// WindowGCProfile returns the GC percentage of every window of width
// nucleotides, indexed by window start. A strand shorter than the window is
// one window.
func WindowGCProfile(seq codon.Sequence, width int) []float64 {
	strand := seq.String()
	n := len(strand)
	if n == 0 {
		return nil
	}
	if width <= 0 || width > n {
		width = n
	}

	out := make([]float64, 0, n-width+1)
	gc := 0
	for i := 0; i < n; i++ {
		if codon.IsGC(strand[i]) {
			gc++
		}
		if i >= width && codon.IsGC(strand[i-width]) {
			gc--
		}
		if i >= width-1 {
			out = append(out, percent(gc, width))
		}
	}
	return out
}

func checkLengths(generated, reference codon.Sequence) error {
	if len(generated) != len(reference) {
		return fmt.Errorf("%w: generated %d codons, reference %d",
			ErrLengthMismatch, len(generated), len(reference))
	}
	return nil
}

// percent returns num/den*100 rounded to 2 decimals. Only num == den
// reports 100.
func percent(num, den int) float64 {
	p := Round2(float64(num) / float64(den) * 100)
	if p == 100 && num != den {
		return 99.99
	}
	return p
}

// Round2 rounds x to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
