package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("reset deletes all learner data; re-run with --force to confirm")
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("No learner data found.")
				return nil
			}
			return fmt.Errorf("remove database: %w", err)
		}
		fmt.Println("Learner data reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Confirm deletion of all learner data")
}
