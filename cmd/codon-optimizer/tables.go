package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tablesFlagKeys = map[string]string{
	"tables-dir": keyTablesDir,
	"aa-map":     keyAAMap,
}

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List available codon usage tables",
		Long: `List the organisms with a codon usage table. Built-in tables are always
available; --tables-dir adds <organism>.csv files from a directory.`,
		Example: `  codon-optimizer tables
  codon-optimizer tables --tables-dir ./usage
  codon-optimizer tables show h_sapiens_9606`,
		Args: usageArgs(cobra.NoArgs),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, tablesFlagKeys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesList(cmd.OutOrStdout())
		},
	}
	addTablesFlags(cmd)

	show := &cobra.Command{
		Use:   "show <organism>",
		Short: "Show one organism's codons ranked by usage",
		Args:  usageArgs(cobra.ExactArgs(1)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, tablesFlagKeys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesShow(cmd.OutOrStdout(), args[0])
		},
	}
	addTablesFlags(show)
	cmd.AddCommand(show)

	return cmd
}

func addTablesFlags(cmd *cobra.Command) {
	cmd.Flags().String("tables-dir", "", "Directory of <organism>.csv codon usage tables")
	cmd.Flags().String("aa-map", "", "codon,aminoacid CSV replacing the standard genetic code")
}

func runTablesList(stdout io.Writer) error {
	s, err := loadSettings()
	if err != nil {
		return usageError{err}
	}
	code, err := s.codeMap()
	if err != nil {
		return err
	}
	for _, org := range s.provider(code).Organisms() {
		fmt.Fprintln(stdout, org)
	}
	return nil
}

func runTablesShow(stdout io.Writer, organism string) error {
	s, err := loadSettings()
	if err != nil {
		return usageError{err}
	}
	code, err := s.codeMap()
	if err != nil {
		return err
	}
	table, err := s.provider(code).Table(organism)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Amino acid\tCodon\tWeight\tRelative")
	for _, aa := range code.AminoAcids() {
		for _, c := range table.Ranked(code, aa) {
			fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\n", aa, c, table.Weight(aa, c), table.Relative(aa, c))
		}
	}
	return w.Flush()
}
