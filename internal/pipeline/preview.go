package pipeline

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WritePreview writes the word-level listing in plain form, one word per
// line with its time range and duration in seconds.
func WritePreview(w io.Writer, words []Word) error {
	for _, word := range words {
		start := float64(word.Start) / 1000
		end := float64(word.End) / 1000
		_, err := fmt.Fprintf(w, "%6.2fs - %6.2fs (%.2fs) : %s\n",
			start, end, end-start, word.Text)
		if err != nil {
			return fmt.Errorf("write preview line: %w", err)
		}
	}
	return nil
}

// RenderPreviewTable renders the word-level listing as a table for
// terminal output.
func RenderPreviewTable(words []Word) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Duration", "Word"})

	for i, word := range words {
		start := float64(word.Start) / 1000
		end := float64(word.End) / 1000
		tw.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.2fs", start),
			fmt.Sprintf("%.2fs", end),
			fmt.Sprintf("%.2fs", end-start),
			word.Text,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignLeft},
	})

	return tw.Render()
}
