package main

import (
	"github.com/spf13/cobra"

	"github.com/auditoria/textaudit/version"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "textaudit",
	Short: "Editorial audit of PDF documents for bias and language-quality issues",
	Long: `Textaudit reviews PDF documents with an LLM and reports editorial
findings: gender, religious and political bias, plus spelling, grammar
and semantic issues.

Each finding carries the page it was found on, the offending fragment
and a concrete rewording recommendation. Results render as a markdown
table, CSV or JSON, with per-category and per-priority totals.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.textaudit/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
