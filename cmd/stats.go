package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomhallmain/Spracherwerb/internal/config"
	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/memory"
	"github.com/tomhallmain/Spracherwerb/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		mem := memory.New(memory.Config{})
		mem.Load(cmd.Context(), st.MemoryRepo())

		lang := cfg.Language
		fmt.Printf("Language: %s\n", lang)
		fmt.Printf("Vocabulary learned: %d\n", len(mem.Vocabulary(lang)))
		fmt.Printf("Grammar points covered: %d\n", len(mem.GrammarPoints(lang)))
		fmt.Printf("Sessions recorded: %d\n", len(mem.SessionHistory()))

		progress := mem.ActivityProgress(lang)
		if len(progress) > 0 {
			fmt.Println("\nActivities completed:")
			for _, activityType := range learning.AllActivityTypes() {
				if count := progress[activityType]; count > 0 {
					fmt.Printf("  %-25s %d\n", activityType, count)
				}
			}
		}
		return nil
	},
}
