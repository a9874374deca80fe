package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qwei-dev/notelens/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default .notelens.yml config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}

		cfg := config.DefaultConfig()
		if err := cfg.Save(cfgFile); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Wrote %s\n", cfgFile)
		fmt.Fprintln(os.Stderr, "Set OPENAI_API_KEY (or switch embedding_provider to ollama) before running `notelens serve`.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
