package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/models"
	"github.com/misterclayt0n/repcoach/internal/storage"
	"github.com/misterclayt0n/repcoach/internal/utils"
)

var (
	filterUser     string
	filterExercise string
	filterDay      string
	historyLimit   int
)

// historyCmd shows saved sessions grouped by day.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display saved sessions, optionally filtered by user, exercise and day",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		filter := storage.SessionFilter{
			Username: filterUser,
			Exercise: filterExercise,
			Limit:    historyLimit,
		}
		if filterDay != "" {
			filter.Day, err = utils.ParseDay(filterDay, time.Now(), loc)
			if err != nil {
				return fmt.Errorf("failed to parse day: %w", err)
			}
		}

		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		sessions, err := st.ListSessions(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to retrieve sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		grouped := make(map[string][]models.CoachSession)
		var days []string
		for _, s := range sessions {
			day := s.StartedAt.In(loc).Format(time.DateOnly)
			if _, ok := grouped[day]; !ok {
				days = append(days, day)
			}
			grouped[day] = append(grouped[day], s)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(days)))

		for _, d := range days {
			list := grouped[d]
			fmt.Printf("Date: %s\n", utils.FormatDay(list[0].StartedAt, loc))
			sort.Slice(list, func(i, j int) bool {
				return list[i].StartedAt.Before(list[j].StartedAt)
			})
			for _, s := range list {
				duration := "unknown"
				if s.EndedAt != nil {
					duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
				}
				fmt.Printf("  %s | %s | Start: %s | Duration: %s | Safety: %d/100\n",
					shortID(s.ID),
					s.Username,
					s.StartedAt.In(loc).Format("15:04"),
					duration,
					s.SafetyScore,
				)
				if len(s.Progress) > 0 {
					parts := make([]string, 0, len(s.Progress))
					for _, p := range s.Progress {
						parts = append(parts, fmt.Sprintf("%s %d", p.Exercise, p.Reps))
					}
					fmt.Printf("    %s\n", strings.Join(parts, ", "))
				}
			}
			fmt.Println()
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&filterUser, "user", "u", "", "Filter by user")
	historyCmd.Flags().StringVarP(&filterExercise, "exercise", "e", "", "Filter by exercise mode id")
	historyCmd.Flags().StringVarP(&filterDay, "day", "d", "", "Filter by day (YYYY-MM-DD, today or yesterday)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show at most this many sessions")
}
