package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qwei-dev/notelens/internal/progress"
	"github.com/qwei-dev/notelens/internal/semantic"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the comment embedding index from the database",
	Long: `Re-embeds every non-blank comment in the database and atomically
replaces the vector index and its id map. Use this after bulk imports,
after switching embedding models, or to recover a corrupted index.`,
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reporter := progress.NewReporter("Embedding comments")
		started := false
		count, err := search.Reindex(ctx, func(done, total int) {
			if !started {
				reporter.Start(total)
				started = true
			}
			reporter.Update(done, "")
		})
		if started {
			reporter.Finish()
		}
		if err != nil {
			if errors.Is(err, semantic.ErrNoComments) {
				fmt.Fprintln(os.Stderr, "No comments to index.")
				return nil
			}
			return fmt.Errorf("rebuilding index: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Indexed %d comments.\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
