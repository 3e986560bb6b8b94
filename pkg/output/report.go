package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/sdejongh/hadidi/pkg/models"
)

// ReportFormats lists the formats accepted by WriteReport
var ReportFormats = []string{"human", "json"}

// WriteReport writes the report to a file, independently of what is printed
// on stdout. Format can be "human" or "json"; the file is written even when
// the trees are identical.
func WriteReport(report *models.Report, path string, format string, opts Options) error {
	var formatter Formatter
	switch format {
	case "json":
		formatter = NewJSONFormatter()
	case "", "human":
		formatter = NewHumanFormatter(opts)
	default:
		return &models.ValidationError{
			Field:   "report-format",
			Message: fmt.Sprintf("unknown format %q (must be %s)", format, strings.Join(ReportFormats, ", ")),
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := formatter.Render(file, report); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
