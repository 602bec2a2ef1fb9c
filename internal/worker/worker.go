package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"auralynx/internal/api"
	"auralynx/internal/config"
	"auralynx/internal/ffmpeg"
	"auralynx/internal/pipeline"
)

// Provider submits audio for transcription and blocks until the provider
// reports completion or failure. The api.Client satisfies it; tests use a
// fake.
type Provider interface {
	Transcribe(ctx context.Context, path string, opts api.TranscribeOptions) (*pipeline.Transcript, error)
}

// Options configures a transcription run.
type Options struct {
	InputPaths      []string
	OutputPath      string // only valid with a single input
	Model           string
	PollTimeout     time.Duration
	NoAsync         bool
	MaxConcurrent   int
	RateLimitPerMin int
	PreviewWords    int
	WriteLRC        bool
	Policy          pipeline.Policy

	// PreviewOut receives the word-level preview. Defaults to os.Stdout.
	PreviewOut io.Writer
}

// OutputPathFor returns the default document path for an input audio file:
// the input with its extension replaced by "_alynx.json".
func OutputPathFor(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + "_alynx.json"
}

// Run transcribes every input file and writes one document per input.
// Multiple inputs are processed concurrently unless NoAsync is set.
func Run(ctx context.Context, provider Provider, opts Options) error {
	if len(opts.InputPaths) == 0 {
		return fmt.Errorf("no input files")
	}
	if opts.OutputPath != "" && len(opts.InputPaths) > 1 {
		return fmt.Errorf("--output is only valid with a single input file")
	}

	if opts.NoAsync || len(opts.InputPaths) == 1 {
		return runSequential(ctx, provider, opts)
	}
	return runConcurrent(ctx, provider, opts)
}

// processOne transcribes a single audio file, writes its document, prints
// the preview, and optionally writes the LRC file.
func processOne(ctx context.Context, provider Provider, inputPath string, opts Options) error {
	slog.Info("processing file", "input", filepath.Base(inputPath))

	pollTimeout := opts.PollTimeout

	// When ffprobe is around, scale the poll timeout so long recordings do
	// not hit the default wall: allow at least twice real-time.
	if info := ffmpeg.LogMediaInfo(ctx, inputPath); info != nil && info.Duration > 0 {
		floor := time.Duration(info.Duration*2) * time.Second
		if floor > pollTimeout {
			slog.Debug("extending poll timeout for long input",
				"timeout", floor.String())
			pollTimeout = floor
		}
	}

	progress := func(read, total int64) {
		pct := 0.0
		if total > 0 {
			pct = math.Min(float64(read)/float64(total)*100, 100)
		}
		slog.Debug("upload progress", "file", filepath.Base(inputPath),
			"percent", fmt.Sprintf("%.1f%%", pct))
	}

	transcript, err := provider.Transcribe(ctx, inputPath, api.TranscribeOptions{
		SpeechModel: opts.Model,
		PollTimeout: pollTimeout,
		Progress:    progress,
	})
	if err != nil {
		return fmt.Errorf("transcribe %s: %w", filepath.Base(inputPath), err)
	}

	if len(transcript.Words) == 0 {
		if opts.Model == config.ModelSlam1 {
			slog.Warn("no word-level data; the slam-1 model is still in beta")
		} else {
			slog.Warn("no word-level data found in transcript")
		}
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = OutputPathFor(inputPath)
	}

	doc := &pipeline.Document{
		SourceFile: inputPath,
		Text:       transcript.Text,
		Words:      transcript.Words,
		Meta: pipeline.Meta{
			Status: transcript.Status,
			ID:     transcript.ID,
		},
	}
	if err := saveDocument(outputPath, doc); err != nil {
		return err
	}
	slog.Info("transcript saved", "path", outputPath)

	if err := printPreview(doc.Words, opts); err != nil {
		return err
	}

	if opts.WriteLRC {
		lrcPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".lrc"
		if err := ExportLRC(doc.Words, opts.Policy, lrcPath); err != nil {
			return err
		}
		slog.Info("LRC exported", "path", lrcPath)
	}

	return nil
}

func saveDocument(path string, doc *pipeline.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func printPreview(words []pipeline.Word, opts Options) error {
	out := opts.PreviewOut
	if out == nil {
		out = os.Stdout
	}

	limit := opts.PreviewWords
	if limit <= 0 || limit > len(words) {
		limit = len(words)
	}
	if limit == 0 {
		return nil
	}

	// Render the whole preview first so concurrent runs emit it as a
	// single write per file instead of interleaved lines.
	var buf bytes.Buffer
	if err := pipeline.WritePreview(&buf, words[:limit]); err != nil {
		return err
	}
	if limit < len(words) {
		fmt.Fprintf(&buf, "... total words: %d\n", len(words))
	}

	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}

// ExportLRC groups words under the policy and writes the LRC file. An empty
// word list still creates the file, empty.
func ExportLRC(words []pipeline.Word, policy pipeline.Policy, path string) error {
	lines := pipeline.GroupWords(words, policy)
	entries, err := pipeline.Entries(lines)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create LRC file: %w", err)
	}
	defer f.Close()

	if err := pipeline.WriteLRC(f, entries); err != nil {
		return err
	}
	return f.Close()
}
