package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanketp27/travel-concierge/internal/types"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Run one chat turn from the command line",
	Args:  cobra.MinimumNArgs(1),
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

		sessionID := types.NewID()
		if chatSessionID != "" {
			sessionID, err = types.ParseID(chatSessionID)
			if err != nil {
				return fmt.Errorf("invalid session id %q: %w", chatSessionID, err)
			}
		}

		query := strings.Join(args, " ")
		reply, err := a.orch.Run(cmd.Context(), sessionID, query)
		if err != nil {
			a.logger.Error("chat turn failed", "error", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), reply)
		fmt.Fprintf(cmd.OutOrStdout(), "\n(session: %s)\n", sessionID.String())
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "Continue an existing session")
}
