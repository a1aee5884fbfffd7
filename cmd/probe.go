package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/user/trimstrip-cli/media"
	"github.com/user/trimstrip-cli/pkg/timeutil"
	"github.com/user/trimstrip-cli/thumbs"
	"github.com/user/trimstrip-cli/tui"
	"github.com/user/trimstrip-cli/tui/components"
)

var probeCmd = &cobra.Command{
	Use:   "probe <video-file>",
	Short: "Show video details and the film strip layout",
	Long: `Probe a video with ffprobe and print its duration, timescale, and frame
size, followed by the thumbnails a strip of --width columns would show.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		absPath, err := resolveVideo(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		defer cancel()
		asset, err := media.Probe(ctx, absPath)
		if err != nil {
			return fmt.Errorf("failed to probe video: %w", err)
		}

		printProbe(cmd.OutOrStdout(), asset, width, cfgFrom(cmd).Thumbnails.Height)
		return nil
	},
}

func printProbe(out io.Writer, asset *media.Asset, width, rows int) {
	fmt.Fprintf(out, "File:       %s\n", filepath.Base(asset.Path))
	fmt.Fprintf(out, "Duration:   %s (%d ticks @ %d/s)\n",
		timeutil.FormatPrecise(asset.DurationSeconds()), asset.DurationTicks, asset.Timescale)
	fmt.Fprintf(out, "Frame:      %dx%d", asset.Width, asset.Height)
	if asset.FrameRate > 0 {
		fmt.Fprintf(out, " @ %.3f fps", asset.FrameRate)
	}
	fmt.Fprintln(out)
	if asset.Codec != "" {
		fmt.Fprintf(out, "Codec:      %s\n", asset.Codec)
	}

	cols := components.StripWidth(width)
	if cols <= 0 {
		fmt.Fprintf(out, "\nA width of %d columns leaves no room for a strip.\n", width)
		return
	}
	req := tui.StripRequest(asset, cols, rows)
	fmt.Fprintf(out, "\nStrip:      %d columns x %d rows\n", cols, rows)
	fmt.Fprintf(out, "Thumbnails: %d of %.0fx%.0f cells\n", req.Count, req.Cells.Width, req.Cells.Height)
	for i, t := range thumbs.FrameTimes(req.Duration, req.Count) {
		fmt.Fprintf(out, "  %3d  %s\n", i, timeutil.FormatPrecise(t.Seconds()))
	}
}

func init() {
	probeCmd.Flags().IntP("width", "w", 100, "terminal width to lay the strip out for")
	rootCmd.AddCommand(probeCmd)
}
