package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/optimize"
	"github.com/inodb/codon-optimizer/internal/pairs"
	"github.com/inodb/codon-optimizer/internal/usage"
)

// Configuration keys, settable in ~/.codon-optimizer.yaml, through
// CODON_OPTIMIZER_* environment variables, or with the matching flags.
const (
	keyGCMin         = "gc.min"
	keyGCMax         = "gc.max"
	keyWindow        = "gc.window"
	keyStartCodon    = "start_codon"
	keyMaxIterations = "max_iterations"
	keyOrganisms     = "organisms"
	keyTablesDir     = "tables.dir"
	keyAAMap         = "aa_map"
	keyOrigColumn    = "columns.original"
	keyRefColumn     = "columns.reference"
	keyEscape        = "escape.enabled"
	keySeed          = "escape.seed"
	keyEscapeSteps   = "escape.steps"
	keyWorkers       = "workers"
	keyDBPath        = "db.path"
	keyDBEnabled     = "db.enabled"
	keyVerbose       = "verbose"
)

const configName = ".codon-optimizer"

var defaultOrganisms = []string{"h_sapiens_9606", "m_musculus_10090"}

func setDefaults() {
	cons := optimize.DefaultConstraints()
	opts := optimize.DefaultOptions()
	cols := pairs.DefaultColumns()

	viper.SetDefault(keyGCMin, cons.GCMin)
	viper.SetDefault(keyGCMax, cons.GCMax)
	viper.SetDefault(keyWindow, cons.Window)
	viper.SetDefault(keyStartCodon, string(cons.StartCodon))
	viper.SetDefault(keyMaxIterations, opts.MaxIterations)
	viper.SetDefault(keyOrganisms, defaultOrganisms)
	viper.SetDefault(keyOrigColumn, cols.Original)
	viper.SetDefault(keyRefColumn, cols.Reference)
	viper.SetDefault(keyEscape, opts.Escape)
	viper.SetDefault(keySeed, opts.Seed)
	viper.SetDefault(keyEscapeSteps, opts.EscapeSteps)
	viper.SetDefault(keyWorkers, 0)
	viper.SetDefault(keyDBPath, defaultDBPath())
	viper.SetDefault(keyDBEnabled, false)
}

// initConfig wires defaults, the environment and the config file into viper.
func initConfig(cfgFile string) error {
	setDefaults()
	viper.SetEnvPrefix("CODON_OPTIMIZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile != "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(configName, "history.duckdb")
	}
	return filepath.Join(home, configName, "history.duckdb")
}

// bindFlags binds each flag name to its configuration key. It runs before
// the command so that commands sharing a key do not overwrite each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for name, key := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

var constraintFlagKeys = map[string]string{
	"gc-min":         keyGCMin,
	"gc-max":         keyGCMax,
	"window":         keyWindow,
	"start-codon":    keyStartCodon,
	"max-iterations": keyMaxIterations,
	"escape":         keyEscape,
	"seed":           keySeed,
	"escape-steps":   keyEscapeSteps,
}

var inputFlagKeys = map[string]string{
	"organism":   keyOrganisms,
	"tables-dir": keyTablesDir,
	"aa-map":     keyAAMap,
	"orig-col":   keyOrigColumn,
	"ref-col":    keyRefColumn,
	"workers":    keyWorkers,
}

var historyFlagKeys = map[string]string{
	"save": keyDBEnabled,
	"db":   keyDBPath,
}

func mergeKeys(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func addConstraintFlags(f *pflag.FlagSet) {
	cons := optimize.DefaultConstraints()
	opts := optimize.DefaultOptions()
	f.Float64("gc-min", cons.GCMin, "Minimum GC fraction per window")
	f.Float64("gc-max", cons.GCMax, "Maximum GC fraction per window")
	f.Int("window", cons.Window, "GC window width in nucleotides")
	f.String("start-codon", string(cons.StartCodon), "Codon pinned at the first position (\"none\" disables pinning)")
	f.Int("max-iterations", opts.MaxIterations, "Substitution budget for GC constraint resolution")
	f.Bool("escape", opts.Escape, "Randomly perturb stalled windows during GC resolution")
	f.Int64("seed", opts.Seed, "Random seed for --escape")
	f.Int("escape-steps", opts.EscapeSteps, "Codons perturbed per escape")
}

func addInputFlags(f *pflag.FlagSet) {
	cols := pairs.DefaultColumns()
	f.StringSlice("organism", defaultOrganisms, "Target organisms (repeat or comma-separate)")
	f.String("tables-dir", "", "Directory of <organism>.csv codon usage tables")
	f.String("aa-map", "", "codon,aminoacid CSV replacing the standard genetic code")
	f.String("orig-col", cols.Original, "Column holding the original codons")
	f.String("ref-col", cols.Reference, "Column holding the reference codons")
	f.Int("workers", 0, "Organisms optimized concurrently (0 = all CPUs)")
}

func addHistoryFlags(f *pflag.FlagSet) {
	f.Bool("save", false, "Record results in the run history database")
	f.String("db", defaultDBPath(), "Run history database path")
}

// settings is the resolved configuration for one command invocation.
type settings struct {
	cons      optimize.Constraints
	opts      optimize.Options
	organisms []string
	tablesDir string
	aaMap     string
	cols      pairs.Columns
	workers   int
	dbPath    string
	dbEnabled bool
}

func loadSettings() (settings, error) {
	s := settings{
		cons: optimize.Constraints{
			GCMin:  viper.GetFloat64(keyGCMin),
			GCMax:  viper.GetFloat64(keyGCMax),
			Window: viper.GetInt(keyWindow),
		},
		opts:      optimize.DefaultOptions(),
		organisms: viper.GetStringSlice(keyOrganisms),
		tablesDir: viper.GetString(keyTablesDir),
		aaMap:     viper.GetString(keyAAMap),
		cols: pairs.Columns{
			Original:  viper.GetString(keyOrigColumn),
			Reference: viper.GetString(keyRefColumn),
		},
		workers:   viper.GetInt(keyWorkers),
		dbPath:    viper.GetString(keyDBPath),
		dbEnabled: viper.GetBool(keyDBEnabled),
	}

	switch start := viper.GetString(keyStartCodon); strings.ToLower(start) {
	case "", "none":
	default:
		c, err := codon.Parse(start)
		if err != nil {
			return s, fmt.Errorf("start codon: %w", err)
		}
		s.cons.StartCodon = c
	}
	if err := s.cons.Validate(); err != nil {
		return s, err
	}

	s.opts.MaxIterations = viper.GetInt(keyMaxIterations)
	s.opts.Escape = viper.GetBool(keyEscape)
	s.opts.Seed = viper.GetInt64(keySeed)
	s.opts.EscapeSteps = viper.GetInt(keyEscapeSteps)
	if s.opts.MaxIterations < 0 {
		return s, fmt.Errorf("max iterations must not be negative, got %d", s.opts.MaxIterations)
	}
	if len(s.organisms) == 0 {
		return s, errors.New("no organisms given")
	}
	return s, nil
}

// codeMap returns the configured amino-acid map.
func (s settings) codeMap() (*codon.Map, error) {
	if s.aaMap == "" {
		return codon.Standard(), nil
	}
	return codon.LoadMap(s.aaMap, codon.DefaultStopSymbol)
}

// provider returns the table provider: the tables directory, if any, shadows
// the built-in tables.
func (s settings) provider(m *codon.Map) usage.Provider {
	if s.tablesDir == "" {
		return usage.Builtin(m)
	}
	return usage.Chain{usage.NewDirProvider(s.tablesDir, m), usage.Builtin(m)}
}

// newLogger builds the command-line logger. Production logging is limited to
// warnings; --verbose switches to the development encoder at debug level.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if viper.GetBool(keyVerbose) {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
