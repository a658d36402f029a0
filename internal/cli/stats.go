package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/purpleschool/purpleschool/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the current level, XP and learning stats",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	snap := d.Engine.Snapshot()

	fmt.Printf("%s  Level %d — %s (%s)\n",
		snap.CurrentLevel.Icon, snap.CurrentLevel.ID, snap.CurrentLevel.Name, snap.CurrentLevel.PhaseName)
	if snap.NextLevel != nil {
		fmt.Printf("  %s %3d%% | %d XP | %d to %s\n",
			levelBar(snap.Progress.Percent), snap.Progress.Percent,
			snap.CurrentXP, snap.Progress.XPToNext, snap.NextLevel.Name)
	} else {
		fmt.Printf("  %s 100%% | %d XP | max level reached\n",
			levelBar(100), snap.CurrentXP)
	}

	status := d.Engine.StreakStatus()
	fmt.Printf("\n%s\n\n", status.Message)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAT\tVALUE")
	fmt.Fprintf(w, "Questions asked\t%d\n", snap.Stats.QuestionsAsked)
	fmt.Fprintf(w, "Study time\t%d min\n", snap.Stats.StudyTimeMinutes)
	fmt.Fprintf(w, "Current streak\t%d days\n", snap.Stats.CurrentStreakDays)
	fmt.Fprintf(w, "Days active\t%d\n", snap.Stats.TotalDaysActive)
	fmt.Fprintf(w, "Study sessions\t%d\n", snap.Stats.TotalStudySessions)
	fmt.Fprintf(w, "Subjects explored\t%d\n", len(snap.Stats.SubjectsEngaged))
	if snap.UnreadCount > 0 {
		fmt.Fprintf(w, "Unread achievements\t%d\n", snap.UnreadCount)
	}
	return w.Flush()
}
