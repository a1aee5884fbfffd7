package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/user/trimstrip-cli/config"
	"github.com/user/trimstrip-cli/db"
	"github.com/user/trimstrip-cli/logging"
	"github.com/user/trimstrip-cli/media"
	"github.com/user/trimstrip-cli/mpv"
	"github.com/user/trimstrip-cli/thumbs"
	"github.com/user/trimstrip-cli/trim"
	"github.com/user/trimstrip-cli/tui"
)

const (
	probeTimeout   = 30 * time.Second
	connectTimeout = 5 * time.Second
	connectRetry   = 100 * time.Millisecond
)

var openCmd = &cobra.Command{
	Use:   "open <video-file>",
	Short: "Open a video in the trimmer",
	Long: `Open a video in mpv and start the trimmer. The window opens on the trim
given by --trim or --start/--end, otherwise on the latest saved trim for the
video, otherwise at the start of the video.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cfgFrom(cmd)

		absPath, err := resolveVideo(args[0])
		if err != nil {
			return err
		}

		logFile, err := redirectLogs(cfg)
		if err != nil {
			return err
		}
		defer logFile.Close()
		logger := logging.WithComponent("open")

		ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		asset, err := media.Probe(ctx, absPath)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to probe video: %w", err)
		}
		logger.Info().Str("path", absPath).Float64("duration", asset.DurationSeconds()).
			Int("width", asset.Width).Int("height", asset.Height).Msg("video probed")

		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		video, err := db.EnsureVideo(store, absPath, asset.Duration())
		if err != nil {
			return fmt.Errorf("failed to register video: %w", err)
		}

		initial, err := initialWindow(cmd, store, video.ID, asset.Timescale)
		if err != nil {
			return err
		}

		fmt.Printf("Opening video: %s\n", filepath.Base(absPath))
		process, err := mpv.LaunchMpv(absPath, cfg.Mpv.SocketPath)
		if err != nil {
			return fmt.Errorf("failed to launch mpv: %w", err)
		}
		defer func() {
			if process.Process != nil {
				_ = process.Process.Kill()
				_ = process.Wait()
			}
		}()

		client := mpv.NewClient(cfg.Mpv.SocketPath)
		ctx, cancel = context.WithTimeout(cmd.Context(), connectTimeout)
		err = client.ConnectContext(ctx, connectRetry)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to mpv: %w", err)
		}
		defer client.Close()

		return tui.Run(tui.Deps{
			Config:    cfg,
			Asset:     asset,
			Player:    client,
			DB:        store,
			Video:     video,
			Extractor: newExtractor(cfg, logging.WithComponent("thumbs")),
			Logger:    log.Logger,
			Initial:   initial,
		})
	},
}

// resolveVideo returns the absolute path of a readable video file.
func resolveVideo(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("video file not found: %s", absPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to access video file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a video file: %s", absPath)
	}
	return absPath, nil
}

// redirectLogs sends log output to the configured log file while the TUI
// owns the terminal.
func redirectLogs(cfg *config.Config) (*os.File, error) {
	path := cfg.Log.File
	if path == "" {
		path = logging.DefaultFile()
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := logging.Init(cfg.Log.Level, f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// initialWindow picks the window to open with from the flags or the database.
// The zero window means the trimmer's default.
func initialWindow(cmd *cobra.Command, store *sql.DB, videoID int64, timescale int32) (trim.Window, error) {
	trimID, _ := cmd.Flags().GetInt64("trim")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")

	switch {
	case trimID > 0:
		t, err := db.SelectTrimByID(store, trimID)
		if errors.Is(err, db.ErrNotFound) {
			return trim.Window{}, fmt.Errorf("trim with ID %d not found", trimID)
		}
		if err != nil {
			return trim.Window{}, fmt.Errorf("failed to fetch trim: %w", err)
		}
		if t.VideoID != videoID {
			return trim.Window{}, fmt.Errorf("trim %d belongs to another video", trimID)
		}
		return t.Window(), nil

	case startStr != "" || endStr != "":
		if startStr == "" || endStr == "" {
			return trim.Window{}, fmt.Errorf("--start and --end must be given together")
		}
		return parseWindow(startStr, endStr, timescale)
	}

	t, err := db.SelectLatestTrim(store, videoID)
	if errors.Is(err, db.ErrNotFound) {
		return trim.Window{}, nil
	}
	if err != nil {
		return trim.Window{}, fmt.Errorf("failed to fetch latest trim: %w", err)
	}
	return t.Window(), nil
}

// newExtractor returns the thumbnail source, or nil when ffmpeg is missing.
// The trimmer works without stills.
func newExtractor(cfg *config.Config, logger zerolog.Logger) thumbs.Extractor {
	ex, err := thumbs.NewFFmpegExtractor(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("thumbnails disabled")
		return nil
	}
	cached, err := thumbs.NewCachedExtractor(ex, cfg.Thumbnails.CacheDir, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("thumbnail cache disabled")
		return ex
	}
	return cached
}

func init() {
	openCmd.Flags().Int64("trim", 0, "open on the saved trim with this ID")
	openCmd.Flags().String("start", "", "window start (H:MM:SS, MM:SS or seconds)")
	openCmd.Flags().String("end", "", "window end (H:MM:SS, MM:SS or seconds)")

	rootCmd.AddCommand(openCmd)
}
