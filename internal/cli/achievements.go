package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/purpleschool/purpleschool/internal/daemon"
)

func init() {
	achievementsCmd.Flags().BoolVar(&markAllRead, "read-all", false, "Mark every achievement as read")
	rootCmd.AddCommand(achievementsCmd)
}

var markAllRead bool

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"badges"},
	Short:   "List unlocked achievements",
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	if markAllRead {
		d.Engine.MarkAllRead()
	}

	snap := d.Engine.Snapshot()
	if len(snap.Achievements) == 0 {
		fmt.Println("No achievements yet. Ask a question to unlock your first one!")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tACHIEVEMENT\tXP\tUNLOCKED\tREAD")
	for _, a := range snap.Achievements {
		read := ""
		if !a.Read {
			read = "new"
		}
		fmt.Fprintf(w, "%s\t%s\t+%d\t%s\t%s\n",
			a.Icon,
			a.Message,
			a.XPAwarded,
			a.CreatedAt.Format("2006-01-02 15:04"),
			read,
		)
	}
	return w.Flush()
}
