package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/utils"
)

var saveSessionCmd = &cobra.Command{
	Use:   "save-session",
	Short: "Save the pending coaching session to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.SessionExists() {
			return fmt.Errorf("no pending session to save")
		}

		state, err := utils.LoadSessionState()
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		saved, err := st.SaveSession(ctx, state)
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		if err := utils.ClearSessionState(); err != nil {
			return fmt.Errorf("session saved but the pending copy could not be cleared: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"session":   saved.ID,
			"user":      saved.Username,
			"exercises": len(saved.Progress),
		}).Info("session saved")

		fmt.Println("✅ Session saved successfully")
		for _, p := range saved.Progress {
			printMetric(p.Exercise, fmt.Sprintf("%d reps", p.Reps))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveSessionCmd)
}
