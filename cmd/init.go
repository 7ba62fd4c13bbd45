package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/config"
)

var initForce bool

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config and create the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}

		if fileExists(path) && !initForce {
			fmt.Printf("Config already present at %s (use --force to overwrite)\n", path)
		} else {
			if err := cfg.Write(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("✅ Config written to %s\n", path)
		}

		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Printf("✅ Database initialized successfully (%s)\n", redactURL(cfg.DB.ConnectionString))
		return nil
	},
}

func init() {
	initSetupCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initSetupCmd)
}
