package usage

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/inodb/codon-optimizer/internal/codon"
)

// Provider looks up codon usage tables by organism identifier
// (e.g. "h_sapiens_9606").
type Provider interface {
	Table(organism string) (*Table, error)
	Organisms() []string
}

//go:embed tables/*.csv
var builtinFS embed.FS

// fsProvider loads <organism>.csv (or .csv.gz / .tsv) files from a
// filesystem and caches parsed tables.
type fsProvider struct {
	fsys fs.FS
	code *codon.Map

	mu     sync.Mutex
	tables map[string]*Table
}

// Builtin returns a provider backed by the tables compiled into the binary.
func Builtin(m *codon.Map) Provider {
	sub, err := fs.Sub(builtinFS, "tables")
	if err != nil {
		panic(err)
	}
	return &fsProvider{fsys: sub, code: m, tables: make(map[string]*Table)}
}

// NewDirProvider returns a provider reading table files from dir.
func NewDirProvider(dir string, m *codon.Map) Provider {
	return &fsProvider{fsys: os.DirFS(dir), code: m, tables: make(map[string]*Table)}
}

var tableExts = []string{".csv", ".csv.gz", ".tsv", ".tsv.gz"}

func (p *fsProvider) Table(organism string) (*Table, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.tables[organism]; ok {
		return t, nil
	}

	for _, ext := range tableExts {
		name := organism + ext
		t, err := p.load(name, organism)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		p.tables[organism] = t
		return t, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownOrganism, organism)
}

func (p *fsProvider) load(name, organism string) (*Table, error) {
	f, err := p.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("open table %s: %w", name, err)
	}
	defer f.Close()

	return parseFile(f, name, organism, p.code)
}

func (p *fsProvider) Organisms() []string {
	seen := make(map[string]bool)
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, ext := range tableExts {
			if strings.HasSuffix(name, ext) {
				seen[strings.TrimSuffix(name, ext)] = true
				break
			}
		}
	}
	out := make([]string, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// Chain consults providers in order and returns the first table found.
type Chain []Provider

func (c Chain) Table(organism string) (*Table, error) {
	for _, p := range c {
		t, err := p.Table(organism)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrUnknownOrganism) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOrganism, organism)
}

func (c Chain) Organisms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c {
		for _, o := range p.Organisms() {
			if !seen[o] {
				seen[o] = true
				out = append(out, o)
			}
		}
	}
	sort.Strings(out)
	return out
}

// organismFromPath derives an organism identifier from a table file name.
func organismFromPath(path string) string {
	base := filepath.Base(path)
	for _, ext := range tableExts {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
