package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/strum/internal/audio"
	"github.com/tessro/strum/internal/library"
	"github.com/tessro/strum/internal/player"
	"github.com/tessro/strum/internal/session"
	"github.com/tessro/strum/internal/tui"
	"github.com/tessro/strum/internal/tui/styles"
)

var libraryOverride []string

var tuiCmd = &cobra.Command{
	Use:     "ui [path]",
	Aliases: []string{"tui"},
	Short:   "Open the player",
	Long: `Open the player on your library.

Keyboard shortcuts (defaults):
  h, space     Play/Pause
  l, enter     Stop
  j, k         Next / previous track
  -, =         Previous / random album
  tab, /       Find an album
  *            Randomized playback
  ~            Shuffled playback
  ?            Help
  q            Quit

A directory argument plays that directory alone, without touching the
saved session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringArrayVar(&libraryOverride, "library", nil, "library root to use instead of the configured ones (repeatable)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// An explicit directory or --library plays outside the regular
	// session: no cache, no restore, nothing saved on quit.
	standalone := len(args) == 1 || len(libraryOverride) > 0
	libCfg := cfg.Library
	if standalone {
		if len(args) == 1 {
			libCfg.Paths = []string{args[0]}
		} else {
			libCfg.Paths = libraryOverride
		}
		libCfg.Cache = false
	}

	cache, err := library.NewCache("")
	if err != nil {
		return err
	}
	result, err := library.Load(libCfg, cache)
	if err != nil {
		return err
	}

	var storage *session.Storage
	opts := player.DefaultOptions()
	opts.Volume = uint8(cfg.Playback.Volume)
	var queue *session.Queue

	if !standalone {
		storage, err = session.NewStorage("")
		if err != nil {
			return err
		}
		if storage.Exists() {
			sess, err := storage.Load()
			if err != nil {
				slog.Warn("discarding unreadable session", slog.Any("error", err))
			} else if sess != nil {
				queue = session.RestoreQueue(sess.Queue)
				opts = sess.Options
			}
		}
	}

	ctx, err := session.NewContext(session.Params{
		Paths:    result.Dirs(),
		Queue:    queue,
		Options:  opts,
		NewSink:  player.NewSink,
		Probe:    audio.Duration,
		SeekStep: time.Duration(cfg.Playback.SeekStep) * time.Second,
		Gapless:  cfg.Playback.Gapless,
	})
	if err != nil {
		return err
	}
	if err := ctx.Start(); err != nil {
		ctx.Close()
		return err
	}
	defer ctx.Close()

	keymap := cfg.Keys.Keymap()
	return tui.Run(&tui.App{
		Ctx:        ctx,
		Keymap:     keymap,
		Candidates: result.Candidates,
		Styles:     styles.New(cfg.Theme.Flavor),
		Storage:    storage,
		ShowVolume: opts.ShowingVolume,
	})
}
