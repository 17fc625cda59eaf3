package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/strum/internal/player"
	"github.com/tessro/strum/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect the saved session",
	Long: `Commands for the session strum saves on quit: the playback options
and the album navigation history.`,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved session",
	RunE:  runSessionShow,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved session",
	Long:  `Delete the saved session. The next launch starts on a random album.`,
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	storage, err := session.NewStorage("")
	if err != nil {
		return err
	}

	if !storage.Exists() {
		if JSONOutput() {
			return printJSON(map[string]any{"exists": false})
		}
		Minimal("No saved session")
		return nil
	}

	sess, err := storage.Load()
	if err != nil {
		return err
	}
	if sess == nil {
		if JSONOutput() {
			return printJSON(map[string]any{"exists": false})
		}
		Minimal("No saved session")
		return nil
	}

	if JSONOutput() {
		return printJSON(sess)
	}

	Normal("Session", storage.Path())
	Normal("Status", player.StatusFromCode(sess.Options.Status).String())
	volume := fmt.Sprintf("%d%%", sess.Options.Volume)
	if sess.Options.Muted {
		volume += " (muted)"
	}
	Normal("Volume", volume)
	Normal("Albums", fmt.Sprintf("%d known", len(sess.Paths)))

	table := NewTable("SLOT", "ALBUM", "TRACK")
	for i, e := range sess.Queue {
		table.Row(slotName(i, len(sess.Queue)), e.Dir, fmt.Sprintf("%d", e.Index+1))
	}
	table.Flush()
	return nil
}

// slotName labels a history entry by its role. The queue is ordered
// [previous, current, pending]; a single-entry queue holds just the
// current selection.
func slotName(i, total int) string {
	if total == 1 {
		return "current"
	}
	switch i {
	case 0:
		return "previous"
	case 1:
		return "current"
	case 2:
		return "pending"
	}
	return fmt.Sprintf("%d", i)
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	storage, err := session.NewStorage("")
	if err != nil {
		return err
	}
	if err := storage.Delete(); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "cleared"})
	}
	Minimal("Session cleared")
	return nil
}
