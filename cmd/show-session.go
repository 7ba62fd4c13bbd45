package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/utils"
)

var showSessionCmd = &cobra.Command{
	Use:   "show-session",
	Short: "Show the pending coaching session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.SessionExists() {
			return fmt.Errorf("no pending session")
		}

		state, err := utils.LoadSessionState()
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		printSessionState(state)
		if state.LastMode != "" {
			fmt.Printf("\nLast mode: %s\n", state.LastMode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showSessionCmd)
}
