package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/codon-optimizer/internal/metrics"
	"github.com/inodb/codon-optimizer/internal/optimize"
	"github.com/inodb/codon-optimizer/internal/pairs"
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <pairs-file>",
		Short: "Compare the two codon columns of a pairs file",
		Long: `Report codon match, nucleotide match and GC content of the original column
against the reference column, plus the windowed GC range of both.`,
		Example: `  codon-optimizer evaluate side-by-side.csv
  codon-optimizer evaluate --orig-col optimized --ref-col codonVaccine --window 60 results.tsv`,
		Args: usageArgs(cobra.ExactArgs(1)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"orig-col": keyOrigColumn,
				"ref-col":  keyRefColumn,
				"window":   keyWindow,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.OutOrStdout(), args[0])
		},
	}

	cols := pairs.DefaultColumns()
	f := cmd.Flags()
	f.String("orig-col", cols.Original, "Column holding the generated codons")
	f.String("ref-col", cols.Reference, "Column holding the reference codons")
	f.Int("window", optimize.DefaultConstraints().Window, "GC window width in nucleotides")

	return cmd
}

func runEvaluate(stdout io.Writer, inputPath string) error {
	s, err := loadSettings()
	if err != nil {
		return usageError{err}
	}
	p, err := pairs.Open(inputPath, s.cols)
	if err != nil {
		return err
	}
	m, err := metrics.Evaluate(p.Original, p.Reference)
	if err != nil {
		return err
	}
	origLo, origHi := metrics.WindowGC(p.Original, s.cons.Window)
	refLo, refHi := metrics.WindowGC(p.Reference, s.cons.Window)

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Codons\t%d\n", p.Len())
	fmt.Fprintf(w, "Codon match %%\t%.2f\n", m.CodonMatch)
	fmt.Fprintf(w, "Nucleotide match %%\t%.2f\n", m.NucleotideMatch)
	fmt.Fprintf(w, "GC ratio %% (%s)\t%.2f\n", s.cols.Original, m.GC)
	fmt.Fprintf(w, "GC ratio %% (%s)\t%.2f\n", s.cols.Reference, metrics.GCRatio(p.Reference))
	fmt.Fprintf(w, "Window GC %% (%s)\t%.2f-%.2f\n", s.cols.Original, origLo, origHi)
	fmt.Fprintf(w, "Window GC %% (%s)\t%.2f-%.2f\n", s.cols.Reference, refLo, refHi)
	return w.Flush()
}
