package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/inodb/codon-optimizer/internal/metrics"
	"github.com/inodb/codon-optimizer/internal/optimize"
	"github.com/inodb/codon-optimizer/internal/output"
	"github.com/inodb/codon-optimizer/internal/pairs"
)

func newRecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recode <pairs-file>",
		Short: "Greedy recoding without GC constraints",
		Long: `Replace every original codon with its organism's most frequent synonym and
write the result as FASTA, one record per organism. The record description
carries the metrics against the reference column.`,
		Example: `  codon-optimizer recode side-by-side.csv
  codon-optimizer recode --organism e_coli_316407 -o recoded.fa pairs.csv`,
		Args: usageArgs(cobra.ExactArgs(1)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, inputFlagKeys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("output")
			width, _ := cmd.Flags().GetInt("line-width")
			return runRecode(cmd.OutOrStdout(), args[0], outPath, width)
		},
	}

	f := cmd.Flags()
	addInputFlags(f)
	f.StringP("output", "o", "", "FASTA file (default: stdout)")
	f.Int("line-width", output.DefaultLineWidth, "FASTA line width (0 = unwrapped)")

	return cmd
}

func runRecode(stdout io.Writer, inputPath, outPath string, width int) error {
	s, err := loadSettings()
	if err != nil {
		return usageError{err}
	}
	code, err := s.codeMap()
	if err != nil {
		return err
	}
	p, err := pairs.Open(inputPath, s.cols)
	if err != nil {
		return err
	}
	provider := s.provider(code)

	out, closeOut, err := openOutput(outPath, stdout)
	if err != nil {
		return err
	}
	sw := output.NewSequenceWriter(out, width)

	for _, org := range s.organisms {
		table, err := provider.Table(org)
		if err != nil {
			closeOut()
			return err
		}
		seq, err := optimize.Greedy(p.Original, table, code)
		if err != nil {
			closeOut()
			return fmt.Errorf("recode %s: %w", org, err)
		}
		m, err := metrics.Evaluate(seq, p.Reference)
		if err != nil {
			closeOut()
			return err
		}
		desc := fmt.Sprintf("codon_match=%.2f nucleotide_match=%.2f gc=%.2f",
			m.CodonMatch, m.NucleotideMatch, m.GC)
		if err := sw.Write(org, desc, seq); err != nil {
			closeOut()
			return fmt.Errorf("writing FASTA: %w", err)
		}
	}

	if err := sw.Flush(); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
