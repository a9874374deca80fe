package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qwei-dev/notelens/internal/semantic"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search comments by meaning from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, _, search, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		query := strings.Join(args, " ")
		results, err := search.Search(context.Background(), query, searchTopK)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results.")
			return nil
		}

		for i, res := range results {
			fmt.Print(formatResult(i+1, res))
		}
		return nil
	},
}

// formatResult renders one ranked search hit for terminal output.
func formatResult(rank int, res semantic.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%2d. [%.4f] %s\n", rank, res.Similarity, res.CommentContent)
	if res.CommenterName != "" || res.NoteTitle != "" {
		fmt.Fprintf(&b, "      by %s on %q\n", res.CommenterName, res.NoteTitle)
	}
	return b.String()
}

func init() {
	searchCmd.Flags().IntVar(&searchTopK, "top-k", 0, "number of results (0 uses config top_k)")
	rootCmd.AddCommand(searchCmd)
}
