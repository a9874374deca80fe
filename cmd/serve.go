package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qwei-dev/notelens/internal/harvest"
	"github.com/qwei-dev/notelens/internal/semantic"
	"github.com/qwei-dev/notelens/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the notelens HTTP server",
	Long:  `Starts the notelens server with the semantic search API and the note ingest endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		database, store, search, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			DataDir:  cfg.DataDir,
			AllowAll: true,
		}, database, store, search)

		r := srv.Router()
		semantic.RegisterRoutes(r, search)

		pipeline := harvest.NewPipeline(store, search, nil, harvestConfigFrom(cfg))
		harvest.RegisterRoutes(r, pipeline)

		// Graceful shutdown: stop accepting requests, then flush any index
		// additions still waiting for the checkpoint cadence.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
			if err := search.Index().Flush(); err != nil {
				fmt.Fprintf(os.Stderr, "flushing index: %v\n", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "notelens server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Data: %s\n", cfg.DataDir)
		fmt.Fprintf(os.Stderr, "  Comments indexed: %d\n", search.Index().Count())
		if search.Index().Degraded() {
			fmt.Fprintln(os.Stderr, "  Warning: index checkpoint was inconsistent; search is disabled until a rebuild")
		}

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
