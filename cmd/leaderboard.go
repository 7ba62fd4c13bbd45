package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank users by total saved reps",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		entries, err := st.Leaderboard(ctx, leaderboardLimit)
		if err != nil {
			return fmt.Errorf("failed to load leaderboard: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No sessions saved yet.")
			return nil
		}

		printBoxedHeader("LEADERBOARD")
		var rows [][]string
		for _, e := range entries {
			rows = append(rows, []string{
				fmt.Sprint(e.Rank),
				e.Username,
				fmt.Sprint(e.TotalReps),
				fmt.Sprint(e.Sessions),
			})
		}
		fmt.Println(renderTable([]string{"#", "User", "Reps", "Sessions"}, rows, 1, 3, 4))
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "Number of users to show (0 for all)")
	rootCmd.AddCommand(leaderboardCmd)
}
