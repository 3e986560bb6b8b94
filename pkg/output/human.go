package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/hadidi/pkg/models"
)

// HumanFormatter prints the plain listing: one banner per tree with content
// the other lacks, then optionally the matched pairs
type HumanFormatter struct {
	opts Options
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(opts Options) *HumanFormatter {
	return &HumanFormatter{opts: opts}
}

// Render writes the listing. Empty buckets print nothing; the same-pairs
// banner is printed whenever ShowSame is set.
func (f *HumanFormatter) Render(w io.Writer, report *models.Report) error {
	result := report.Result
	if result == nil {
		result = &models.ComparisonResult{}
	}

	if err := f.writeBucket(w, report, report.LeftRoot, result.OnlyLeft); err != nil {
		return err
	}
	if err := f.writeBucket(w, report, report.RightRoot, result.OnlyRight); err != nil {
		return err
	}

	if !f.opts.ShowSame {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Files with the same hashes:"); err != nil {
		return err
	}
	for _, pair := range result.SameEntries() {
		if _, err := fmt.Fprintf(w, "\t%s = %s\n", pair.Left, pair.Right); err != nil {
			return err
		}
	}
	return nil
}

func (f *HumanFormatter) writeBucket(w io.Writer, report *models.Report, root string, bucket models.DigestMap) error {
	if len(bucket) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "Only in %s:\n", root); err != nil {
		return err
	}
	for _, entry := range bucket.Entries() {
		var err error
		if f.opts.ShowHashes {
			_, err = fmt.Fprintf(w, " %s[%s] %s\n", algorithmLabel(report), entry.Hash, entry.Path)
		} else {
			_, err = fmt.Fprintf(w, "  %s\n", entry.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// algorithmLabel prefers the algorithm name as typed over the canonical one
func algorithmLabel(report *models.Report) string {
	if report.AlgorithmLabel != "" {
		return report.AlgorithmLabel
	}
	return report.Algorithm
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
