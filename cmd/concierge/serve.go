package main

import (
	"github.com/spf13/cobra"

	"github.com/sanketp27/travel-concierge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(cfg.Server, a.orch, a.sessions, a.healthChecks(), a.logger)
		return srv.Start(cmd.Context())
	},
}
