package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "notelens",
	Short: "Semantic search over harvested social notes and comments",
	Long: `Notelens stores harvested notes, comments and user profiles in SQLite
and keeps an embedding index over the comment text, so that comments
can be searched by meaning rather than by keyword.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".notelens.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
