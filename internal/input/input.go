// Package input opens plain or gzip-compressed tabular input files.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
)

// File is an opened input stream. Close releases the gzip reader and the
// underlying file.
type File struct {
	io.Reader
	file *os.File
	gz   *pgzip.Reader
}

// Open opens path for reading. Gzip input is detected by magic bytes,
// not by extension. "-" reads stdin.
func Open(path string) (*File, error) {
	if path == "-" {
		return FromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	f, err := FromReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	f.file = file
	return f, nil
}

// FromReader wraps r, transparently decompressing gzip streams.
func FromReader(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return &File{Reader: gz, gz: gz}, nil
	}

	return &File{Reader: br}, nil
}

// Close closes the gzip reader and file, if any.
func (f *File) Close() error {
	if f.gz != nil {
		f.gz.Close()
	}
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Delimiter guesses the field separator from the file name.
// .tsv and .txt (optionally gzipped) use tabs; everything else commas.
func Delimiter(path string) rune {
	lower := strings.ToLower(path)
	lower = strings.TrimSuffix(lower, ".gz")
	switch filepath.Ext(lower) {
	case ".tsv", ".txt", ".tab":
		return '\t'
	}
	return ','
}
