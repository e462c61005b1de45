package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dwdash/internal/dashboard"
	"github.com/dbsmedya/dwdash/internal/database"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve connects to the warehouse and serves the dashboard page. Every
page load runs the enabled reports serially against the shared connection.

Endpoints:
  GET /                    dashboard page
  GET /reports/{id}.png    one chart
  GET /api/reports/{id}    one aggregate table as JSON
  GET /healthz             warehouse ping

Example:
  dwdash serve --config dwdash.yaml --listen :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listen, "listen", "l", "",
		"Override the listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := database.SetupSignalHandler(context.Background(), func(sig os.Signal) {
		cmd.PrintErrf("received %s, shutting down\n", sig)
	})
	defer cancel()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := dashboard.NewServer(a.reports, a.runner, a.db, dashboard.Options{
		Title:        a.cfg.Server.Title,
		Warehouse:    a.db.Describe(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}, a.log)

	return srv.ListenAndServe(ctx, a.cfg.Server.Listen)
}
