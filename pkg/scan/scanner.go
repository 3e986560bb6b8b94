// Package scan walks one directory tree and builds its digest map.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdejongh/hadidi/pkg/digest"
	"github.com/sdejongh/hadidi/pkg/filter"
	"github.com/sdejongh/hadidi/pkg/logging"
	"github.com/sdejongh/hadidi/pkg/models"
	"github.com/sdejongh/hadidi/pkg/storage"
)

// Progress receives scan progress events
type Progress interface {
	// Begin is called once the tree is listed, with the number of files to visit
	Begin(label string, total int)
	// Step is called once per hashed, filtered or skipped file
	Step(path string)
	// End is called when the scan stops, successfully or not
	End()
}

// Option configures a Scanner
type Option func(*Scanner)

// WithFilter excludes files matched by the pattern
func WithFilter(p *filter.Pattern) Option {
	return func(s *Scanner) {
		s.filter = p
	}
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgress sets the progress receiver
func WithProgress(p Progress) Option {
	return func(s *Scanner) {
		s.progress = p
	}
}

// WithDisplayRoot sets the prefix joined to relative paths in the digest map.
// It defaults to the backend root.
func WithDisplayRoot(root string) Option {
	return func(s *Scanner) {
		s.displayRoot = root
	}
}

// Scanner hashes every regular file below a backend root
type Scanner struct {
	backend     storage.Backend
	hasher      *digest.Hasher
	filter      *filter.Pattern
	logger      logging.Logger
	progress    Progress
	displayRoot string
	stats       models.ScanStats
}

// New creates a scanner over backend
func New(backend storage.Backend, hasher *digest.Hasher, opts ...Option) *Scanner {
	s := &Scanner{
		backend:     backend,
		hasher:      hasher,
		logger:      logging.NewNullLogger(),
		displayRoot: backend.Root(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the statistics of the last scan
func (s *Scanner) Stats() models.ScanStats {
	return s.stats
}

// Scan lists and hashes the tree. The first listing or hashing error aborts
// the scan; no partial map is returned.
func (s *Scanner) Scan(ctx context.Context) (models.DigestMap, error) {
	s.stats = models.ScanStats{}
	logger := s.logger.WithFields(logging.Fields{"root": s.displayRoot})

	logger.Info(ctx, "Scanning tree", logging.Fields{
		"algorithm": s.hasher.Algorithm().Name,
	})

	files, err := s.backend.List(ctx, "")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Error(ctx, "Listing failed", err, nil)
		return nil, models.NewError(models.KindIO, s.displayRoot, err)
	}

	if s.progress != nil {
		total := 0
		for _, file := range files {
			if !file.IsDir() {
				total++
			}
		}
		s.progress.Begin(s.displayRoot, total)
		defer s.progress.End()
	}

	digests := make(models.DigestMap)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if file.IsDir() {
			s.stats.DirsScanned++
			continue
		}

		display := displayPath(s.displayRoot, file.RelativePath)
		if err := s.visit(ctx, logger, file, display, digests); err != nil {
			logger.Error(ctx, "Hashing failed", err, logging.Fields{"path": display})
			return nil, err
		}
		if s.progress != nil {
			s.progress.Step(display)
		}
	}

	logger.Info(ctx, "Scan complete", logging.Fields{
		"files_hashed":    s.stats.FilesHashed,
		"bytes_hashed":    s.stats.BytesHashed,
		"files_filtered":  s.stats.FilesFiltered,
		"entries_skipped": s.stats.EntriesSkipped,
		"collisions":      s.stats.Collisions,
	})
	return digests, nil
}

func (s *Scanner) visit(ctx context.Context, logger logging.Logger, file storage.FileInfo, display string, digests models.DigestMap) error {
	if !file.IsRegular() {
		s.stats.EntriesSkipped++
		logger.Debug(ctx, "Skipping non-regular entry", logging.Fields{
			"path": display,
			"mode": file.Mode.String(),
		})
		return nil
	}

	if s.filter.Excludes(file.RelativePath) {
		s.stats.FilesFiltered++
		logger.Debug(ctx, "Filtered", logging.Fields{"path": display})
		return nil
	}

	sum, n, err := s.hasher.HashFile(ctx, s.backend, file.RelativePath)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", display, err)
	}
	s.stats.FilesHashed++
	s.stats.BytesHashed += n

	if previous, ok := digests[sum]; ok {
		s.stats.Collisions++
		logger.Warn(ctx, "Duplicate content in tree, keeping last path", logging.Fields{
			"hash":     sum,
			"previous": previous,
			"path":     display,
		})
	}
	digests[sum] = display
	return nil
}

// displayPath appends rel to root as typed, adding a separator only when the
// root does not already end with one. The root is not cleaned, so "./left/"
// yields "./left/a.txt".
func displayPath(root, rel string) string {
	if root == "" {
		return rel
	}
	if os.IsPathSeparator(root[len(root)-1]) {
		return root + rel
	}
	return root + string(filepath.Separator) + rel
}
