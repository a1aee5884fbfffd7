package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/trimstrip-cli/config"
	"github.com/user/trimstrip-cli/db"
	"github.com/user/trimstrip-cli/media"
	"github.com/user/trimstrip-cli/mpv"
	"github.com/user/trimstrip-cli/pkg/timeutil"
	"github.com/user/trimstrip-cli/trim"
)

// validationWidth is the strip width used to check a window outside the TUI.
// Only times matter, so any width works.
const validationWidth = 1000

var trimsCmd = &cobra.Command{
	Use:   "trims",
	Short: "Manage saved trims",
	Long:  `Add, list, delete, and jump to saved trim windows.`,
}

var trimsListCmd = &cobra.Command{
	Use:   "list <video-file>",
	Short: "List saved trims for a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		absPath, err := resolveVideo(args[0])
		if err != nil {
			return err
		}

		store, err := db.Open(cfgFrom(cmd).Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		video, err := db.SelectVideoByPath(store, absPath)
		if errors.Is(err, db.ErrNotFound) {
			fmt.Println("No trims saved for this video.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to fetch video: %w", err)
		}

		trims, err := db.SelectTrimsByVideo(store, video.ID)
		if err != nil {
			return fmt.Errorf("failed to query trims: %w", err)
		}
		printTrims(cmd.OutOrStdout(), trims)
		return nil
	},
}

func printTrims(out io.Writer, trims []db.Trim) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tStart\tEnd\tLength\tLabel\tCreated")
	fmt.Fprintln(w, "--\t-----\t---\t------\t-----\t-------")
	for _, t := range trims {
		win := t.Window()
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3fs\t%s\t%s\n", t.ID,
			timeutil.FormatPrecise(win.Start.Seconds()),
			timeutil.FormatPrecise(win.End.Seconds()),
			win.DurationSeconds(), t.Label, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()

	if len(trims) == 0 {
		fmt.Fprintln(out, "\nNo trims found.")
	} else {
		fmt.Fprintf(out, "\n%d trim(s) found.\n", len(trims))
	}
}

var trimsAddCmd = &cobra.Command{
	Use:   "add <video-file>",
	Short: "Save a trim window without opening the trimmer",
	Long: `Save a trim window for a video. The window must lie inside the video and
its length must be within the configured min/max duration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cfgFrom(cmd)
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		label, _ := cmd.Flags().GetString("label")

		absPath, err := resolveVideo(args[0])
		if err != nil {
			return err
		}

		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		video, err := videoWithDuration(cmd.Context(), store, absPath)
		if err != nil {
			return err
		}

		w, err := parseWindow(startStr, endStr, video.Timescale)
		if err != nil {
			return err
		}
		if err := validateWindow(w, video.Duration(), cfg.Trim); err != nil {
			return err
		}

		id, err := db.InsertTrim(store, video.ID, w, label)
		if err != nil {
			return fmt.Errorf("failed to save trim: %w", err)
		}
		fmt.Printf("Trim added: ID %d %s-%s (%.3fs)\n", id,
			timeutil.FormatPrecise(w.Start.Seconds()), timeutil.FormatPrecise(w.End.Seconds()), w.DurationSeconds())
		return nil
	},
}

// videoWithDuration returns the stored video row, probing the file when the
// video is new.
func videoWithDuration(ctx context.Context, store *sql.DB, absPath string) (*db.Video, error) {
	video, err := db.SelectVideoByPath(store, absPath)
	if err == nil && video.DurationTicks > 0 {
		return video, nil
	}
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch video: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	asset, err := media.Probe(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}
	return db.EnsureVideo(store, absPath, asset.Duration())
}

// parseWindow parses start and end times on the given timescale.
func parseWindow(startStr, endStr string, timescale int32) (trim.Window, error) {
	start, err := timeutil.ParseTimeToSeconds(startStr)
	if err != nil {
		return trim.Window{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := timeutil.ParseTimeToSeconds(endStr)
	if err != nil {
		return trim.Window{}, fmt.Errorf("invalid end: %w", err)
	}
	return trim.Window{
		Start: trim.NewTimeValue(start, timescale),
		End:   trim.NewTimeValue(end, timescale),
	}, nil
}

// validateWindow checks w against the asset and the length band by setting
// up a trim session with it.
func validateWindow(w trim.Window, duration trim.TimeValue, tc config.TrimConfig) error {
	track := trim.Track{WidthPixels: validationWidth, DurationTicks: duration.Ticks, Timescale: duration.Timescale}
	session := trim.NewSession(trim.WithDraggableWidth(tc.DraggableWidth))
	if err := session.Initialize(track, w.Start, w.End, tc.MinDurationSeconds, tc.MaxDurationSeconds); err != nil {
		return err
	}
	if duration.Before(w.End) {
		return fmt.Errorf("end %s is past the end of the video (%s)",
			timeutil.FormatPrecise(w.End.Seconds()), timeutil.FormatPrecise(duration.Seconds()))
	}
	length := w.DurationSeconds()
	if length < tc.MinDurationSeconds || length > tc.MaxDurationSeconds {
		return fmt.Errorf("trim length %.3fs is outside the allowed %v-%vs",
			length, tc.MinDurationSeconds, tc.MaxDurationSeconds)
	}
	return nil
}

var trimsGotoCmd = &cobra.Command{
	Use:   "goto <id>",
	Short: "Seek a running mpv to a trim's start",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cfgFrom(cmd)
		trimID, err := parseID(args[0])
		if err != nil {
			return err
		}

		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		t, err := fetchTrim(store, trimID)
		if err != nil {
			return err
		}

		client := mpv.NewClient(cfg.Mpv.SocketPath)
		if err := client.Connect(); err != nil {
			return fmt.Errorf("failed to connect to mpv: %w\n(Is mpv running with a video open?)", err)
		}
		defer client.Close()

		start := t.Window().Start.Seconds()
		if err := client.Seek(start, true); err != nil {
			return fmt.Errorf("failed to seek to trim start: %w", err)
		}
		fmt.Printf("Jumped to trim %d at %s\n", t.ID, timeutil.FormatPrecise(start))
		if t.Label != "" {
			fmt.Printf("  Label: %s\n", t.Label)
		}
		return nil
	},
}

var trimsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved trim",
	Long:  `Delete a saved trim by ID. Prompts for confirmation unless --force is used.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trimID, err := parseID(args[0])
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		store, err := db.Open(cfgFrom(cmd).Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		t, err := fetchTrim(store, trimID)
		if err != nil {
			return err
		}
		w := t.Window()
		fmt.Printf("Trim %d %s-%s %s\n", t.ID,
			timeutil.FormatPrecise(w.Start.Seconds()), timeutil.FormatPrecise(w.End.Seconds()), t.Label)

		if !force {
			ok, err := DefaultPrompter.Confirm("Delete this trim?", false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Deletion cancelled.")
				return nil
			}
		}

		if err := db.DeleteTrim(store, trimID); err != nil {
			return fmt.Errorf("failed to delete trim: %w", err)
		}
		fmt.Printf("Trim %d deleted.\n", trimID)
		return nil
	},
}

func parseID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid trim ID: %s", s)
	}
	return id, nil
}

func fetchTrim(store *sql.DB, id int64) (*db.Trim, error) {
	t, err := db.SelectTrimByID(store, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("trim with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trim: %w", err)
	}
	return t, nil
}

func init() {
	trimsAddCmd.Flags().StringP("start", "s", "", "window start (H:MM:SS, MM:SS or seconds)")
	trimsAddCmd.Flags().StringP("end", "e", "", "window end (H:MM:SS, MM:SS or seconds)")
	trimsAddCmd.Flags().StringP("label", "l", "", "trim label")
	_ = trimsAddCmd.MarkFlagRequired("start")
	_ = trimsAddCmd.MarkFlagRequired("end")

	trimsDeleteCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	trimsCmd.AddCommand(trimsListCmd)
	trimsCmd.AddCommand(trimsAddCmd)
	trimsCmd.AddCommand(trimsGotoCmd)
	trimsCmd.AddCommand(trimsDeleteCmd)
	rootCmd.AddCommand(trimsCmd)
}
