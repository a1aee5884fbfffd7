package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/user/trimstrip-cli/config"
	"github.com/user/trimstrip-cli/deps"
	"github.com/user/trimstrip-cli/logging"
)

var Version = "0.1.0"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "trimstrip",
	Short: "Pick a trim window on a video from the terminal",
	Long: `trimstrip opens a video in mpv next to a terminal film strip with two
draggable trim handles and a playhead. The window between the handles is kept
within a configured length band and can be saved to a local SQLite database.

Features:
  - Drag trim handles with the mouse or nudge them from the keyboard
  - Scrub and loop playback inside the trim window
  - Save, list, and apply labelled trims per video`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := logging.Init(cfg.Log.Level, os.Stderr); err != nil {
			return err
		}
		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trimstrip version %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that the external programs trimstrip uses (mpv, ffmpeg, ffprobe) are installed and available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !runDoctor(cmd.OutOrStdout()) {
			return fmt.Errorf("some dependencies are missing")
		}
		return nil
	},
}

// runDoctor prints one line per dependency and reports whether all were found.
func runDoctor(w io.Writer) bool {
	fmt.Fprintln(w, "Checking dependencies...")
	fmt.Fprintln(w)

	allGood := true
	for _, b := range deps.All {
		path, err := deps.Locate(b)
		if err != nil {
			fmt.Fprintf(w, "✗ %s: NOT FOUND (%s)\n", b.Name, b.Purpose)
			fmt.Fprintf(w, "  Install from: %s\n", b.InstallURL)
			allGood = false
			continue
		}
		fmt.Fprintf(w, "✓ %s: %s\n", b.Name, path)
	}

	fmt.Fprintln(w)
	if allGood {
		fmt.Fprintln(w, "All dependencies are installed!")
	} else {
		fmt.Fprintln(w, "Some dependencies are missing. Please install them to use all features.")
	}
	return allGood
}

// cfgFrom returns the configuration loaded by the root command.
func cfgFrom(cmd *cobra.Command) *config.Config {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return config.FromContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./trimstrip.yaml or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
