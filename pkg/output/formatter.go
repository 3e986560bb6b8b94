// Package output renders comparison reports for terminals, files and scripts.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sdejongh/hadidi/pkg/models"
)

// Options controls what a formatter includes
type Options struct {
	// ShowHashes prefixes each path with "<alg>[<digest>]"
	ShowHashes bool
	// ShowSame adds the pairs of files whose content matched
	ShowSame bool
	// Width caps table rows; 0 detects the terminal width
	Width int
}

// Formatter defines the interface for report rendering.
// Implementations include human-readable, JSON and table formatters.
type Formatter interface {
	// Render writes the report to w
	Render(w io.Writer, report *models.Report) error

	// Name returns the formatter name
	Name() string
}

// Formats lists the accepted output format names
var Formats = []string{"human", "json", "table"}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, opts Options) (Formatter, error) {
	switch name {
	case "", "human":
		return NewHumanFormatter(opts), nil
	case "json":
		return NewJSONFormatter(), nil
	case "table":
		return NewTableFormatter(opts), nil
	default:
		return nil, &models.ValidationError{
			Field:   "output",
			Message: fmt.Sprintf("unknown format %q (must be %s)", name, strings.Join(Formats, ", ")),
		}
	}
}
