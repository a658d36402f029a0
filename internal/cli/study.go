package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/purpleschool/purpleschool/internal/app/progress"
	"github.com/purpleschool/purpleschool/internal/daemon"
	"github.com/purpleschool/purpleschool/internal/domain"
)

func init() {
	studyCmd.Flags().StringVar(&studySubject, "subject", "", "Subject being studied (counts toward subject diversity)")
	rootCmd.AddCommand(studyCmd)
}

var studySubject string

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Start a tracked study session",
	Long: `Start a study session. Time is credited while the session runs,
and every line you enter counts as a question asked. Type /done to finish.`,
	RunE: runStudy,
}

func runStudy(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	eng := d.Engine

	// Opening the session is also today's activity.
	eng.RecordDailyLogin()
	eng.RecordLearnWelcome()
	eng.UpdateStreak()
	if studySubject != "" {
		if err := eng.RecordSubjectEngagement(studySubject); err != nil {
			return err
		}
	}
	eng.StartStudySession()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go eng.RunTicker(ctx, d.Config.Progress.TickInterval())

	// Ctrl+C ends the session cleanly instead of dropping the minutes.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		eng.RecordSessionComplete()
		drainEvents(eng)
		os.Exit(0)
	}()

	fmt.Println(">>> Study session started (type /done to finish)")
	if studySubject != "" {
		fmt.Printf(">>> Subject: %s\n", studySubject)
	}

	scanner := newLineScanner(os.Stdin)
	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		if input == "/done" || input == "/bye" || input == "/exit" {
			break
		}
		if input == "" {
			continue
		}

		eng.RecordQuestionAsked()
		drainEvents(eng)
	}

	cancel()
	eng.RecordSessionComplete()
	drainEvents(eng)

	snap := eng.Snapshot()
	fmt.Printf("\nSession complete: %d min studied total, %d XP.\n",
		snap.Stats.StudyTimeMinutes, snap.CurrentXP)
	return nil
}

// drainEvents prints and dismisses pending celebration events.
func drainEvents(eng *progress.Engine) {
	for {
		ev, ok := eng.NextEvent()
		if !ok {
			return
		}
		switch ev.Type {
		case domain.EventLevelUp:
			fmt.Printf("\n%s Level up! You are now level %d — %s\n",
				ev.Level.Icon, ev.Level.ID, ev.Level.Name)
		case domain.EventAchievement:
			fmt.Printf("\n%s %s (+%d XP)\n",
				ev.Achievement.Icon, ev.Achievement.Message, ev.Achievement.XPAwarded)
		}
		eng.DismissEvent()
	}
}
