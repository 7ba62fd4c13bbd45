package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/storage"
	"github.com/misterclayt0n/repcoach/internal/utils"
)

var (
	progressUser string
	progressDays int
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a user's totals per exercise and recent daily reps",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := progressUser
		if user == "" {
			user = cfg.Coach.DefaultUser
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		stats, err := st.UserStats(ctx, user, loc)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		if stats.Sessions == 0 {
			fmt.Printf("No saved sessions for %s.\n", user)
			return nil
		}

		now := time.Now()
		sessions, err := st.ListSessions(ctx, storage.SessionFilter{Username: user})
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		starts := make([]time.Time, 0, len(sessions))
		for _, s := range sessions {
			starts = append(starts, s.StartedAt.In(loc))
		}
		stats.WeekStreak = utils.WeekStreak(starts, now.In(loc))

		printBoxedHeader("PROGRESS: " + user)
		printMetric("Total reps", stats.TotalReps)
		printMetric("Sessions", stats.Sessions)
		printMetric("Active days", stats.ActiveDays)
		printMetric("Week streak", stats.WeekStreak)
		if stats.BestExercise != "" {
			printMetric("Best exercise", stats.BestExercise)
		}
		fmt.Println()

		totals, err := st.UserProgress(ctx, user)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		var rows [][]string
		for _, t := range totals {
			rows = append(rows, []string{
				t.Exercise,
				fmt.Sprint(t.TotalReps),
				fmt.Sprint(t.Sessions),
				fmt.Sprint(t.BestReps),
				utils.FormatDay(t.LastDate, loc),
			})
		}
		fmt.Println(renderTable([]string{"Exercise", "Reps", "Sessions", "Best", "Last"}, rows, 2, 3, 4))

		daily, err := st.DailyReps(ctx, user, progressDays, now, loc)
		if err != nil {
			return fmt.Errorf("failed to load daily reps: %w", err)
		}
		peak := 0
		for _, d := range daily {
			peak = max(peak, d.Reps)
		}
		fmt.Printf("\nLast %d days:\n", progressDays)
		for _, d := range daily {
			fmt.Printf("  %s %5d %s\n", d.Day.Format("Mon 02 Jan"), d.Reps, utils.Bar(d.Reps, peak, 30))
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVarP(&progressUser, "user", "u", "", "User to show (defaults to the configured user)")
	progressCmd.Flags().IntVar(&progressDays, "days", 7, "Number of days in the daily chart")
	rootCmd.AddCommand(progressCmd)
}
