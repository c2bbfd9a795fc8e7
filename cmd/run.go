package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomhallmain/Spracherwerb/internal/config"
	"github.com/tomhallmain/Spracherwerb/internal/engine"
	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/llm"
	"github.com/tomhallmain/Spracherwerb/internal/media"
	"github.com/tomhallmain/Spracherwerb/internal/memory"
	"github.com/tomhallmain/Spracherwerb/internal/store"
	"github.com/tomhallmain/Spracherwerb/internal/tutor"
	"github.com/tomhallmain/Spracherwerb/internal/voice"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a learning session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd)
	},
}

func init() {
	runCmd.Flags().Bool("interactive", false, "Read learner responses from stdin during activities")
	runCmd.Flags().String("language", "", "Target language (overrides config)")
}

// runSession opens the store, builds dependencies, and runs one session
// through its configured activities.
func runSession(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		cfg.Language = lang
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
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

	mem := memory.New(memory.Config{Logger: logger})
	mem.Load(ctx, st.MemoryRepo())

	provider, err := llm.NewProviderFromEnv(ctx, logger)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	sessCfg, err := cfg.SessionConfig()
	if err != nil {
		return fmt.Errorf("session config: %w", err)
	}

	deps := engine.Deps{
		Provider:       provider,
		Voice:          voice.Noop{},
		Media:          media.Noop{},
		Memory:         mem,
		LearningConfig: cfg.LearningConfig(),
		Logger:         logger,
	}
	hooks := tutor.Hooks{
		ActivityStarted: func(activityType learning.ActivityType, result *engine.ActivityResult) {
			fmt.Printf("\n== %s ==\n%s\n", activityType, result.Content)
		},
		UserResponseProcessed: func(reply string) {
			fmt.Println(reply)
		},
		MediaGenerated: func(artifact string) {
			fmt.Println("media:", artifact)
		},
		ErrorOccurred: func(err error) {
			fmt.Fprintln(os.Stderr, "error:", err)
		},
	}

	manager := tutor.NewManager(logger)
	id := manager.CreateSession(sessCfg, hooks, deps)
	if err := manager.StartSession(id); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	sess := manager.Session(id)
	defer manager.Cleanup()

	interactive, _ := cmd.Flags().GetBool("interactive")
	input := bufio.NewScanner(os.Stdin)

	for _, activityType := range sessCfg.Activities {
		if _, err := sess.StartActivity(ctx, activityType); err != nil {
			return fmt.Errorf("start activity %s: %w", activityType, err)
		}
		if interactive {
			if err := readResponses(ctx, sess, input); err != nil {
				return err
			}
		}
		if _, err := sess.CompleteCurrentActivity(); err != nil {
			return fmt.Errorf("complete activity %s: %w", activityType, err)
		}
	}

	if err := manager.EndSession(); err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	progress := sess.Progress()
	mem.AddSessionToHistory(memory.SessionRecord{
		SessionID:            id,
		Language:             sessCfg.Language,
		StartedAt:            sess.State().StartTime,
		Duration:             sess.State().ElapsedTime(),
		ActivitiesCompleted:  progress.ActivitiesCompleted,
		VocabularyLearned:    progress.VocabularyLearned,
		GrammarPointsCovered: progress.GrammarPointsCovered,
	})
	mem.Save(ctx, st.MemoryRepo())

	fmt.Printf("\nSession complete: %d activities, %d new words, %d grammar points.\n",
		progress.ActivitiesCompleted, progress.VocabularyLearned, progress.GrammarPointsCovered)
	return nil
}

// readResponses feeds stdin lines to the current activity until a blank
// line or EOF.
func readResponses(ctx context.Context, sess *tutor.Session, input *bufio.Scanner) error {
	for {
		fmt.Print("> ")
		if !input.Scan() {
			return input.Err()
		}
		line := strings.TrimSpace(input.Text())
		if line == "" {
			return nil
		}
		if _, err := sess.ProcessUserResponse(ctx, line); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}
