package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanketp27/travel-concierge/internal/types"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and manage sessions",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session's conversation history and state",
	Args:  cobra.ExactArgs(1),
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

		sessionID, err := types.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", args[0], err)
		}

		messages, err := a.sessions.Messages(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		state, err := a.sessions.LoadState(cmd.Context(), sessionID)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(map[string]any{
			"session_id": sessionID.String(),
			"messages":   messages,
			"state":      state,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <session-id>",
	Short: "Clear a session's history and state",
	Args:  cobra.ExactArgs(1),
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

		sessionID, err := types.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", args[0], err)
		}

		if err := a.sessions.ClearSession(cmd.Context(), sessionID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s cleared\n", sessionID.String())
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}
