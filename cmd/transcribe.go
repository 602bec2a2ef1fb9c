package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"auralynx/internal/api"
	"auralynx/internal/config"
	"auralynx/internal/pipeline"
	"auralynx/internal/worker"

	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>...",
	Short: "Transcribe audio files with AssemblyAI",
	Long: `Transcribe uploads one or more audio files to the AssemblyAI API, waits
for completion, saves the word-level transcript JSON (<input>_alynx.json by
default), and prints a word-level preview. With --lrc it also writes the
grouped LRC lyric file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranscribe,
}

var (
	output        string
	model         string
	pollTimeout   int
	noAsync       bool
	maxConcurrent int
	rateLimit     int
	previewWords  int
	transcribeLRC bool
)

func init() {
	transcribeCmd.Flags().StringVarP(&output, "output", "o", "", "output JSON path (default: <input>_alynx.json; single input only)")
	transcribeCmd.Flags().StringVarP(&model, "model", "m", config.ModelUniversal, "speech model: universal, slam-1")
	transcribeCmd.Flags().IntVar(&pollTimeout, "timeout", 0, "polling timeout in seconds (default from config: 300)")
	transcribeCmd.Flags().BoolVar(&noAsync, "no-async", false, "process multiple inputs sequentially")
	transcribeCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", 0, "max concurrent uploads (default from config: 3)")
	transcribeCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "API requests per minute (default from config: 30)")
	transcribeCmd.Flags().IntVar(&previewWords, "preview", 30, "number of words to preview (0 = all)")
	transcribeCmd.Flags().BoolVar(&transcribeLRC, "lrc", false, "also export an LRC file next to the JSON")

	rootCmd.AddCommand(transcribeCmd)
}

// Audio formats the provider accepts directly.
var validAudioExts = map[string]bool{
	".mp3": true, ".m4a": true, ".wav": true, ".flac": true,
	".ogg": true, ".aac": true, ".opus": true, ".webm": true,
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := config.ValidateModel(model); err != nil {
		return err
	}

	inputs := make([]string, 0, len(args))
	for _, arg := range args {
		absPath, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", arg)
		}
		ext := strings.ToLower(filepath.Ext(absPath))
		if !validAudioExts[ext] {
			return fmt.Errorf("unsupported file type: %s", ext)
		}
		inputs = append(inputs, absPath)
	}

	apiKey, err := config.APIKey()
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.API.PollTimeoutSec) * time.Second
	if pollTimeout > 0 {
		timeout = time.Duration(pollTimeout) * time.Second
	}
	concurrent := cfg.API.MaxConcurrent
	if maxConcurrent > 0 {
		concurrent = maxConcurrent
	}
	rpm := cfg.API.RateLimitPerMin
	if rateLimit > 0 {
		rpm = rateLimit
	}

	client := api.NewClient(apiKey,
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithPollInterval(time.Duration(cfg.API.PollIntervalSec)*time.Second),
	)

	// Graceful cancellation on Ctrl-C.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := worker.Options{
		InputPaths:      inputs,
		OutputPath:      output,
		Model:           model,
		PollTimeout:     timeout,
		NoAsync:         noAsync,
		MaxConcurrent:   concurrent,
		RateLimitPerMin: rpm,
		PreviewWords:    previewWords,
		WriteLRC:        transcribeLRC,
		Policy: pipeline.Policy{
			MaxWordsPerLine: cfg.Lyrics.MaxWordsPerLine,
			MaxGapMS:        cfg.Lyrics.MaxGapMS,
			SentenceSplit:   cfg.Lyrics.SentenceSplit,
		},
	}

	if err := worker.Run(ctx, client, opts); err != nil {
		return err
	}

	if !quiet {
		slog.Info("done", "model", model)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}
