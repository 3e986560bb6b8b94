package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/hadidi/pkg/models"
)

// JSONFormatter formats the report as a single JSON document for automation
// and scripting
type JSONFormatter struct{}

// JSONReportData is the document written by JSONFormatter
type JSONReportData struct {
	ID         string               `json:"id"`
	Left       string               `json:"left"`
	Right      string               `json:"right"`
	Algorithm  string               `json:"algorithm"`
	Status     string               `json:"status"`
	StartTime  string               `json:"start_time"`
	EndTime    string               `json:"end_time"`
	DurationMs int64                `json:"duration_ms"`
	OnlyLeft   []models.DigestEntry `json:"only_left"`
	OnlyRight  []models.DigestEntry `json:"only_right"`
	Same       []models.SameEntry   `json:"same"`
	Mismatches []models.Mismatch    `json:"mismatches,omitempty"`
	Stats      JSONStatsData        `json:"stats"`
}

// JSONStatsData holds the scan statistics of both trees
type JSONStatsData struct {
	Left  models.ScanStats `json:"left"`
	Right models.ScanStats `json:"right"`
}

// NewJSONFormatter creates a new JSON formatter. Digests and matched pairs
// are always part of the document.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Render writes the report as indented JSON
func (f *JSONFormatter) Render(w io.Writer, report *models.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newJSONReportData(report))
}

func newJSONReportData(report *models.Report) JSONReportData {
	result := report.Result
	if result == nil {
		result = &models.ComparisonResult{}
	}

	return JSONReportData{
		ID:         report.ID,
		Left:       report.LeftRoot,
		Right:      report.RightRoot,
		Algorithm:  report.Algorithm,
		Status:     string(report.Status),
		StartTime:  report.StartTime.Format(time.RFC3339),
		EndTime:    report.EndTime.Format(time.RFC3339),
		DurationMs: report.Duration.Milliseconds(),
		OnlyLeft:   result.OnlyLeft.Entries(),
		OnlyRight:  result.OnlyRight.Entries(),
		Same:       result.SameEntries(),
		Mismatches: report.Mismatches,
		Stats: JSONStatsData{
			Left:  report.LeftStats,
			Right: report.RightStats,
		},
	}
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
