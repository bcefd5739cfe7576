package input

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.csv")
	require.NoError(t, os.WriteFile(path, []byte("codonOrig,codonVaccine\n"), 0644))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "codonOrig,codonVaccine\n", string(data))
}

func TestOpen_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	_, err := zw.Write([]byte("ATG,ATG\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	// No .gz extension: detection is by magic bytes.
	path := filepath.Join(t.TempDir(), "pairs.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "ATG,ATG\n", string(data))
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("/nonexistent/pairs.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromReader_Short(t *testing.T) {
	f, err := FromReader(bytes.NewReader([]byte("A")))
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "A", string(data))
}

func TestDelimiter(t *testing.T) {
	tests := []struct {
		path string
		want rune
	}{
		{"side-by-side.csv", ','},
		{"side-by-side.csv.gz", ','},
		{"pairs.tsv", '\t'},
		{"PAIRS.TSV.GZ", '\t'},
		{"pairs.txt", '\t'},
		{"-", ','},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Delimiter(tt.path))
		})
	}
}
