package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tomhallmain/Spracherwerb/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "spracherwerb",
	Short: "AI language tutor",
	Long:  "Spracherwerb — AI-driven tutor that runs spoken-style language learning sessions in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SPRACHERWERB_DB env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SPRACHERWERB_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
