// Package codon provides the genetic code, codon sequences and translation.
package codon

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCodon is returned when a string is not a 3-letter ACGT codon.
	ErrInvalidCodon = errors.New("invalid codon")
	// ErrUnknownCodon is returned when a codon is absent from the amino acid map.
	ErrUnknownCodon = errors.New("unknown codon")
	// ErrFrame is returned when a strand length is not a multiple of 3.
	ErrFrame = errors.New("strand length is not a multiple of 3")
)

// Codon is a 3-nucleotide DNA unit over {A,C,G,T}.
type Codon string

// AminoAcid is a single-letter amino acid symbol. Stop codons map to Stop.
type AminoAcid byte

// Stop is the amino acid symbol for stop codons.
const Stop AminoAcid = '*'

// String returns the single-letter symbol.
func (a AminoAcid) String() string {
	return string(a)
}

// Valid reports whether c is exactly three bases from {A,C,G,T}.
func (c Codon) Valid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if !isBase(c[i]) {
			return false
		}
	}
	return true
}

// GC returns the number of G or C bases in the codon.
func (c Codon) GC() int {
	n := 0
	for i := 0; i < len(c); i++ {
		if IsGC(c[i]) {
			n++
		}
	}
	return n
}

// Parse normalizes s to an upper-case DNA codon. RNA U is read as T.
func Parse(s string) (Codon, error) {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCodon, s)
	}
	var buf [3]byte
	for i := 0; i < 3; i++ {
		b := s[i]
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if b == 'U' {
			b = 'T'
		}
		if !isBase(b) {
			return "", fmt.Errorf("%w: %q", ErrInvalidCodon, s)
		}
		buf[i] = b
	}
	return Codon(buf[:]), nil
}

// IsGC reports whether base is G or C.
func IsGC(base byte) bool {
	return base == 'G' || base == 'C'
}

func isBase(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}

// AllCodons returns the 64 codons in lexicographic order.
func AllCodons() []Codon {
	const bases = "ACGT"
	out := make([]Codon, 0, 64)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				out = append(out, Codon([]byte{bases[i], bases[j], bases[k]}))
			}
		}
	}
	return out
}
