package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/purpleschool/purpleschool/internal/daemon"
	"github.com/purpleschool/purpleschool/internal/infra/store"
)

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress and start over",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		fmt.Print("This erases all XP, streaks and achievements. Type 'reset' to confirm: ")
		scanner := newLineScanner(os.Stdin)
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "reset" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}

	db, err := store.OpenSQLite(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Save(store.KeyProgressState, []byte("{}")); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	if err := db.Save(store.KeyAchievementLog, []byte("[]")); err != nil {
		return fmt.Errorf("reset achievements: %w", err)
	}

	fmt.Println("Progress reset. Every journey starts at level 1.")
	return nil
}
