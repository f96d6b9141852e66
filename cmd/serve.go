package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"traininghours/web"
)

var (
	servePort      int
	serveHistoryDB string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a local HTTP API that runs transforms on request",
	Long: `Start a local HTTP server exposing the transform operation.

Routes:
- POST /api/transform  {"src_path": "...", "dest_path": "..."}
- GET  /api/runs?limit=N  recent runs from the history journal
- GET  /healthz
- GET  /metrics  Prometheus exposition

Paths in requests are resolved on the machine running the server.`,
	Example: `
  # Start on the configured port (serve.port, default 8080)
  traininghours serve

  # Start on a custom port with run history
  traininghours serve --port 9090 --history-db ./traininghours.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appOverrides{historyDB: serveHistoryDB})
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.Serve.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		var runs web.RunLister
		if a.store != nil {
			runs = a.store
		}
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           web.NewServer(a.service, runs, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a.logger.Info("server listening", slog.String("addr", server.Addr))
			fmt.Printf("Listening on http://localhost:%d\n", port)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			a.logger.Info("server stopped")
			return nil
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local server (overrides serve.port)")
	serveCmd.Flags().StringVar(&serveHistoryDB, "history-db", "", "Record runs in this SQLite database (overrides history.db)")
}
