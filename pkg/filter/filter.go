// Package filter decides which files are left out of a tree scan.
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sdejongh/hadidi/pkg/models"
)

// Pattern excludes files by regular expression on the base name and by
// glob on the base name or relative path. A nil Pattern excludes nothing.
type Pattern struct {
	regex   *regexp.Regexp
	sources []string
	globs   []string
}

// Compile builds a Pattern from regular expressions and glob patterns.
//
// The regular expressions are OR-combined, each in its own group, and
// anchored at the start of the name: "tmp" excludes "tmp.log" but not
// "a.tmp". Use ".*tmp" to match anywhere. Empty entries are ignored.
func Compile(regexes, globs []string) (*Pattern, error) {
	p := &Pattern{}

	for _, r := range regexes {
		if r != "" {
			p.sources = append(p.sources, r)
		}
	}
	if len(p.sources) > 0 {
		combined := "^(?:(" + strings.Join(p.sources, ")|(") + "))"
		re, err := regexp.Compile(combined)
		if err != nil {
			return nil, models.NewError(models.KindInvalidArguments, "",
				fmt.Errorf("invalid filter %q: %w", strings.Join(p.sources, "|"), err))
		}
		p.regex = re
	}

	for _, g := range globs {
		if g == "" {
			continue
		}
		if _, err := filepath.Match(strings.TrimSuffix(filepath.ToSlash(g), "/"), ""); err != nil {
			return nil, models.NewError(models.KindInvalidArguments, "",
				fmt.Errorf("invalid exclude pattern %q: %w", g, err))
		}
		p.globs = append(p.globs, g)
	}

	return p, nil
}

// Empty reports whether the pattern excludes nothing
func (p *Pattern) Empty() bool {
	return p == nil || (p.regex == nil && len(p.globs) == 0)
}

// MatchName reports whether a base name matches the filter expressions
func (p *Pattern) MatchName(name string) bool {
	if p == nil || p.regex == nil {
		return false
	}
	return p.regex.MatchString(name)
}

// Excludes reports whether the file at relativePath must be left out
func (p *Pattern) Excludes(relativePath string) bool {
	if p.Empty() {
		return false
	}
	if p.MatchName(filepath.Base(relativePath)) {
		return true
	}
	return matchExclude(relativePath, p.globs)
}

// String returns the combined expression followed by the globs
func (p *Pattern) String() string {
	if p.Empty() {
		return ""
	}
	parts := make([]string, 0, 1+len(p.globs))
	if p.regex != nil {
		parts = append(parts, p.regex.String())
	}
	parts = append(parts, p.globs...)
	return strings.Join(parts, " ")
}
