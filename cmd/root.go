package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "auralynx",
	Short: "Transcribe audio with AssemblyAI and export word-timed lyrics",
	Long: `Auralynx submits audio files to the AssemblyAI speech-to-text API,
saves word-level timestamped transcripts as JSON, and converts them into a
human-readable preview or karaoke-style LRC lyric files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
		// Best-effort: a .env in the working directory may carry AAI_API_KEY.
		if err := godotenv.Load(); err == nil {
			slog.Debug("loaded .env file")
		}
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/auralynx/config.toml)")
}
