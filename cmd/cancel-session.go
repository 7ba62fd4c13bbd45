package cmd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/utils"
)

// cancelSessionCmd drops the run left behind by `coach` without touching the database.
var cancelSessionCmd = &cobra.Command{
	Use:   "cancel-session",
	Short: "Discard the pending coaching session without saving any data",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := utils.LoadSessionState()
		if errors.Is(err, utils.ErrNoSession) {
			return fmt.Errorf("no pending session to cancel")
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		if err := utils.ClearSessionState(); err != nil {
			return fmt.Errorf("failed to cancel session: %w", err)
		}

		var reps float64
		for _, v := range state.Tallies {
			reps += v
		}
		logrus.WithFields(logrus.Fields{"session": state.SessionID, "user": state.Username}).Info("pending session discarded")
		fmt.Printf("✅ Session of %s cancelled, %d reps discarded\n", state.Username, int(reps))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cancelSessionCmd)
}
