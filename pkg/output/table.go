package output

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sdejongh/hadidi/pkg/models"
)

// minPathWidth keeps path columns readable on narrow terminals
const minPathWidth = 20

// TableFormatter renders the report as bordered tables followed by a one
// line summary
type TableFormatter struct {
	opts Options
}

// NewTableFormatter creates a new table formatter. Columns are fitted to
// opts.Width, or to the terminal width when unset and the output is a terminal.
func NewTableFormatter(opts Options) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Render writes the differences table, the same-pairs table when requested,
// and a summary line
func (f *TableFormatter) Render(w io.Writer, report *models.Report) error {
	result := report.Result
	if result == nil {
		result = &models.ComparisonResult{}
	}

	width := f.opts.Width
	if width == 0 {
		width = terminalWidth(w)
	}

	if result.HasDifferences() {
		if _, err := fmt.Fprintln(w, f.renderDifferences(report, result, width)); err != nil {
			return err
		}
	}

	if f.opts.ShowSame && len(result.Same) > 0 {
		if _, err := fmt.Fprintln(w, f.renderSame(report, result, width)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s: %d only in %s, %d only in %s, %d same (%s hashed with %s)\n",
		report.Status,
		len(result.OnlyLeft), report.LeftRoot,
		len(result.OnlyRight), report.RightRoot,
		len(result.Same),
		humanize.IBytes(uint64(report.LeftStats.BytesHashed+report.RightStats.BytesHashed)),
		report.Algorithm,
	)
	return err
}

func (f *TableFormatter) renderDifferences(report *models.Report, result *models.ComparisonResult, width int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"Side"}
	if f.opts.ShowHashes {
		header = append(header, "Hash")
	}
	header = append(header, "Path")
	tw.AppendHeader(header)

	sides := []struct {
		label  string
		bucket models.DigestMap
	}{
		{report.LeftRoot, result.OnlyLeft},
		{report.RightRoot, result.OnlyRight},
	}
	for _, side := range sides {
		for _, entry := range side.bucket.Entries() {
			row := table.Row{side.label}
			if f.opts.ShowHashes {
				row = append(row, entry.Hash)
			}
			row = append(row, entry.Path)
			tw.AppendRow(row)
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: len(header), WidthMax: pathWidth(width, len(header), fixedWidth(report, result, f.opts.ShowHashes)), WidthMaxEnforcer: text.WrapHard},
	})
	return tw.Render()
}

func (f *TableFormatter) renderSame(report *models.Report, result *models.ComparisonResult, width int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Files with the same hashes")

	header := table.Row{}
	if f.opts.ShowHashes {
		header = append(header, "Hash")
	}
	header = append(header, report.LeftRoot, report.RightRoot)
	tw.AppendHeader(header)

	for _, pair := range result.SameEntries() {
		row := table.Row{}
		if f.opts.ShowHashes {
			row = append(row, pair.Hash)
		}
		row = append(row, pair.Left, pair.Right)
		tw.AppendRow(row)
	}

	fixed := 0
	if f.opts.ShowHashes {
		fixed = hashWidth(result)
	}
	limit := pathWidth(width, len(header), fixed) / 2
	if width > 0 && limit < minPathWidth {
		limit = minPathWidth
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: len(header) - 1, WidthMax: limit, WidthMaxEnforcer: text.WrapHard},
		{Number: len(header), WidthMax: limit, WidthMaxEnforcer: text.WrapHard},
	})
	return tw.Render()
}

// fixedWidth is the width taken by the side and hash columns of the
// differences table
func fixedWidth(report *models.Report, result *models.ComparisonResult, showHashes bool) int {
	side := len("Side")
	for _, root := range []string{report.LeftRoot, report.RightRoot} {
		if n := utf8.RuneCountInString(root); n > side {
			side = n
		}
	}
	if showHashes {
		return side + hashWidth(result)
	}
	return side
}

func hashWidth(result *models.ComparisonResult) int {
	for _, m := range []models.DigestMap{result.OnlyLeft, result.OnlyRight} {
		for h := range m {
			return len(h)
		}
	}
	for h := range result.Same {
		return len(h)
	}
	return len("Hash")
}

// pathWidth returns the room left for path columns, or 0 (unlimited) when
// the width is unknown. Each column costs three characters of padding and
// border, plus one for the closing border.
func pathWidth(width, columns, fixed int) int {
	if width <= 0 {
		return 0
	}
	room := width - fixed - columns*3 - 1
	if room < minPathWidth {
		return minPathWidth
	}
	return room
}

// Name returns the formatter name
func (f *TableFormatter) Name() string {
	return "table"
}
