package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"auralynx/internal/pipeline"
	"auralynx/internal/worker"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <transcript-json>",
	Short: "Show word-level timestamps from a saved transcript",
	Long: `Parse reads a saved transcript JSON (the output of the transcribe
command, or a raw AssemblyAI transcript result) and prints the word-level
timestamp listing. With --lrc it instead exports an LRC lyric file, grouping
words into display lines.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var parseLrcCmd = &cobra.Command{
	Use:   "parse-lrc <transcript-json>",
	Short: "Export an LRC lyric file from a saved transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exportLRC = true
		return runParse(cmd, args)
	},
}

var (
	exportLRC     bool
	lrcOut        string
	maxWords      int
	maxGapMS      int
	sentenceSplit bool
)

func init() {
	parseCmd.Flags().BoolVar(&exportLRC, "lrc", false, "export an LRC file instead of listing words")
	for _, c := range []*cobra.Command{parseCmd, parseLrcCmd} {
		c.Flags().StringVar(&lrcOut, "lrc-out", "", "LRC output path (default: <input>.lrc)")
		c.Flags().IntVar(&maxWords, "max-words", 0, "max words per LRC line (default from config: 8)")
		c.Flags().IntVar(&maxGapMS, "max-gap-ms", -1, "silence gap in ms that starts a new line (default from config: 2000; 0 disables)")
		c.Flags().BoolVar(&sentenceSplit, "sentence-split", true, "break lines at terminal punctuation")
	}

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(parseLrcCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	doc, err := pipeline.Load(args[0])
	if err != nil {
		return err
	}

	if len(doc.Words) == 0 {
		slog.Warn("no word-level data in transcript")
	}

	if !exportLRC {
		return printWordListing(doc.Words)
	}

	policy, err := parsePolicy(cmd)
	if err != nil {
		return err
	}

	outPath := lrcOut
	if outPath == "" {
		base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		outPath = base + ".lrc"
	}

	if err := worker.ExportLRC(doc.Words, policy, outPath); err != nil {
		return err
	}
	slog.Info("LRC exported", "path", outPath)
	return nil
}

// parsePolicy builds the grouping policy: config file defaults overridden by
// any flags the user set.
func parsePolicy(cmd *cobra.Command) (pipeline.Policy, error) {
	cfg, err := loadConfig()
	if err != nil {
		return pipeline.Policy{}, err
	}

	policy := pipeline.Policy{
		MaxWordsPerLine: cfg.Lyrics.MaxWordsPerLine,
		MaxGapMS:        cfg.Lyrics.MaxGapMS,
		SentenceSplit:   cfg.Lyrics.SentenceSplit,
	}
	if cmd.Flags().Changed("max-words") {
		policy.MaxWordsPerLine = maxWords
	}
	if cmd.Flags().Changed("max-gap-ms") {
		policy.MaxGapMS = maxGapMS
	}
	if cmd.Flags().Changed("sentence-split") {
		policy.SentenceSplit = sentenceSplit
	}
	return policy, nil
}

// printWordListing writes the preview: a table on a terminal, plain lines
// when piped.
func printWordListing(words []pipeline.Word) error {
	if isTerminal(os.Stdout) {
		fmt.Println(pipeline.RenderPreviewTable(words))
		fmt.Printf("total words: %d\n", len(words))
		return nil
	}
	if err := pipeline.WritePreview(os.Stdout, words); err != nil {
		return err
	}
	fmt.Printf("total words: %d\n", len(words))
	return nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
