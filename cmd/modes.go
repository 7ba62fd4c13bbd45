package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/rules"
)

var modesFamily string

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the available exercise modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}

		families := rules.Families
		if modesFamily != "" {
			f := rules.Family(modesFamily)
			if !f.Valid() {
				return fmt.Errorf("unknown family %q", modesFamily)
			}
			families = []rules.Family{f}
		}

		for _, f := range families {
			var rows [][]string
			for _, m := range table.ByFamily(f) {
				rows = append(rows, []string{
					m.ID,
					m.Name,
					fmt.Sprintf("%s (%s)", m.Start.Name, m.Start.Band),
					fmt.Sprintf("%s (%s)", m.Target.Name, m.Target.Band),
					rules.FormatReps(m.Increment),
				})
			}
			if len(rows) == 0 {
				continue
			}
			fmt.Println(color.New(color.FgGreen, color.Bold).Sprintf("%s (voice cooldown %s)", f, f.VoiceCooldown()))
			fmt.Println(renderTable([]string{"ID", "Name", "Start", "Target", "Rep"}, rows, 5))
			fmt.Println()
		}
		return nil
	},
}

func init() {
	modesCmd.Flags().StringVar(&modesFamily, "family", "", "Only list one family (general, yoga, senior, pregnancy)")
	rootCmd.AddCommand(modesCmd)
}
