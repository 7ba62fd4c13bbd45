package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/rules"
)

var importModesCmd = &cobra.Command{
	Use:   "import-modes [file]",
	Short: "Import custom exercise modes from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		incoming, err := rules.LoadFile(args[0])
		if err != nil {
			return err
		}
		existing, err := loadCustomModes()
		if err != nil {
			return err
		}

		// Re-importing a mode replaces the stored definition.
		merged := make([]rules.Mode, 0, len(existing)+len(incoming))
		replaced := make(map[string]bool)
		for _, m := range incoming {
			replaced[m.ID] = true
		}
		for _, m := range existing {
			if !replaced[m.ID] {
				merged = append(merged, m)
			}
		}
		merged = append(merged, incoming...)

		// Validate against the built-ins before anything is written.
		if _, err := rules.Default(merged...); err != nil {
			return err
		}

		custom, err := rules.NewTable(merged...)
		if err != nil {
			return err
		}
		if err := rules.WriteFile(cfg.Coach.ModesFile, custom.Modes()); err != nil {
			return err
		}

		for _, m := range incoming {
			fmt.Printf("✅ Imported mode '%s' (%s)\n", m.ID, m.Family)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importModesCmd)
}
