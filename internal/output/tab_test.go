package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/codon-optimizer/internal/metrics"
)

func sampleRow() Row {
	return Row{
		Organism:   "h_sapiens_9606",
		Metrics:    metrics.Result{CodonMatch: 66.67, NucleotideMatch: 88.89, GC: 33.33},
		Satisfied:  true,
		Score:      2.5,
		MaxScore:   3,
		Iterations: 4,
		WindowMin:  30,
		WindowMax:  50,
	}
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	cols := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	assert.Equal(t, "organism", cols[0])
	assert.Contains(t, cols, "codon_match_pct")
	assert.Contains(t, cols, "nucleotide_match_pct")
	assert.Contains(t, cols, "gc_pct")
	assert.Contains(t, cols, "satisfied")
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.Write(sampleRow()))
	require.NoError(t, w.Flush())

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 11)
	assert.Equal(t, []string{
		"h_sapiens_9606", "66.67", "88.89", "33.33", "30.00", "50.00",
		"2.5000", "3.0000", "4", "yes", "-",
	}, fields)
}

func TestTabWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	row := Row{Organism: "unknown_1", Err: errors.New("unknown organism:\tunknown_1")}
	require.NoError(t, w.Write(row))
	require.NoError(t, w.Flush())

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 11)
	assert.Equal(t, "unknown_1", fields[0])
	assert.Equal(t, "-", fields[1])
	assert.Equal(t, "error", fields[9])
	assert.Equal(t, "unknown organism: unknown_1", fields[10])
}
