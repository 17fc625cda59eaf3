package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/strum/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the music library",
	Long:  `Commands for scanning the music library and inspecting its cache.`,
}

var libraryScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the library",
	Long: `Walk the configured library roots and rebuild the album candidate
list, refreshing the scan cache when caching is enabled.`,
	RunE: runLibraryScan,
}

var libraryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library cache statistics",
	RunE:  runLibraryStats,
}

func init() {
	libraryCmd.AddCommand(libraryScanCmd)
	libraryCmd.AddCommand(libraryStatsCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryScan(cmd *cobra.Command, args []string) error {
	start := time.Now()
	partial, err := library.Scan(cfg.Library)
	if err != nil {
		return err
	}
	result := partial.Data
	elapsed := time.Since(start).Round(time.Millisecond)

	if cfg.Library.Cache {
		cache, err := library.NewCache("")
		if err != nil {
			return err
		}
		if err := cache.Save(cfg.Library, result); err != nil {
			return fmt.Errorf("failed to write library cache: %w", err)
		}
	}

	if JSONOutput() {
		return printJSON(struct {
			Candidates int      `json:"candidates"`
			Files      int      `json:"files"`
			Bytes      int64    `json:"bytes"`
			ElapsedMS  int64    `json:"elapsed_ms"`
			Skipped    []string `json:"skipped,omitempty"`
		}{
			Candidates: len(result.Candidates),
			Files:      result.Files,
			Bytes:      result.Bytes,
			ElapsedMS:  elapsed.Milliseconds(),
			Skipped:    errorStrings(partial.Errors),
		})
	}

	NormalF("Scanned %d albums, %d files (%s) in %s",
		len(result.Candidates), result.Files,
		humanize.Bytes(uint64(result.Bytes)), elapsed)

	if partial.HasErrors() {
		NormalF("Skipped %d entries", len(partial.Errors))
		if Verbose() {
			for _, e := range partial.Errors {
				NormalF("  %s", e)
			}
		}
	}

	if Verbose() {
		table := NewTable("ALBUM", "FILES", "SIZE")
		for _, c := range result.Candidates {
			table.Row(c.Name, fmt.Sprintf("%d", c.Files), humanize.Bytes(uint64(c.Bytes)))
		}
		table.Flush()
	}

	return nil
}

func runLibraryStats(cmd *cobra.Command, args []string) error {
	cache, err := library.NewCache("")
	if err != nil {
		return err
	}
	stats, err := cache.Stats()
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(stats)
	}

	Normal("Cache", stats.Path)
	Normal("Size", humanize.Bytes(uint64(stats.Size)))
	Normal("Scanned", fmt.Sprintf("%s (%s)",
		stats.ScannedAt.Format(time.RFC3339), humanize.Time(stats.ScannedAt)))
	Normal("Fingerprint", fmt.Sprintf("%016x", stats.Fingerprint))
	Normal("Albums", fmt.Sprintf("%d", stats.Candidates))
	Normal("Files", fmt.Sprintf("%d (%s)", stats.Files, humanize.Bytes(uint64(stats.Bytes))))
	return nil
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
