package compare

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/sdejongh/hadidi/pkg/digest"
	"github.com/sdejongh/hadidi/pkg/filter"
	"github.com/sdejongh/hadidi/pkg/logging"
	"github.com/sdejongh/hadidi/pkg/models"
	"github.com/sdejongh/hadidi/pkg/scan"
	"github.com/sdejongh/hadidi/pkg/storage"
)

// Options configures an Engine run
type Options struct {
	// ID identifies the run; a random UUID is used when empty
	ID string

	// LeftRoot and RightRoot are the roots as given by the user, used as
	// prefixes of reported paths. They default to the backend roots.
	LeftRoot  string
	RightRoot string

	Filter   *filter.Pattern
	Logger   logging.Logger
	Progress scan.Progress

	// Verifier, when set, re-reads every matched pair byte-by-byte. Pairs
	// that differ are moved to OnlyLeft and OnlyRight.
	Verifier *Verifier
}

// Engine scans two trees one after the other and diffs their digest maps
type Engine struct {
	left    storage.Backend
	right   storage.Backend
	hasher  *digest.Hasher
	options Options
}

// NewEngine creates a new comparison engine
func NewEngine(left, right storage.Backend, hasher *digest.Hasher, options Options) *Engine {
	if options.ID == "" {
		options.ID = uuid.New().String()
	}
	if options.LeftRoot == "" {
		options.LeftRoot = left.Root()
	}
	if options.RightRoot == "" {
		options.RightRoot = right.Root()
	}
	if options.Logger == nil {
		options.Logger = logging.NewNullLogger()
	}

	return &Engine{
		left:    left,
		right:   right,
		hasher:  hasher,
		options: options,
	}
}

// Run executes the comparison. On error no report is returned.
func (e *Engine) Run(ctx context.Context) (*models.Report, error) {
	logger := e.options.Logger.WithFields(logging.Fields{"run_id": e.options.ID})

	report := &models.Report{
		ID:             e.options.ID,
		LeftRoot:       e.options.LeftRoot,
		RightRoot:      e.options.RightRoot,
		Algorithm:      e.hasher.Algorithm().Name,
		AlgorithmLabel: e.hasher.Algorithm().Label,
		StartTime:      time.Now(),
	}

	logger.Info(ctx, "Starting comparison", logging.Fields{
		"left":      report.LeftRoot,
		"right":     report.RightRoot,
		"algorithm": report.Algorithm,
		"filter":    e.options.Filter.String(),
	})

	leftMap, leftStats, err := e.scanTree(ctx, e.left, e.options.LeftRoot, logger)
	if err != nil {
		return nil, err
	}
	rightMap, rightStats, err := e.scanTree(ctx, e.right, e.options.RightRoot, logger)
	if err != nil {
		return nil, err
	}

	report.LeftStats = leftStats
	report.RightStats = rightStats
	report.Result = Diff(leftMap, rightMap)
	if e.options.Verifier != nil {
		if err := e.verify(ctx, report, logger); err != nil {
			return nil, err
		}
	}
	report.Status = models.StatusOf(report.Result)
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	logger.Info(ctx, "Comparison complete", logging.Fields{
		"status":     string(report.Status),
		"same":       len(report.Result.Same),
		"only_left":  len(report.Result.OnlyLeft),
		"only_right": len(report.Result.OnlyRight),
		"hashed":     humanize.IBytes(uint64(leftStats.BytesHashed + rightStats.BytesHashed)),
		"duration":   report.Duration.String(),
	})

	return report, nil
}

func (e *Engine) scanTree(ctx context.Context, backend storage.Backend, root string, logger logging.Logger) (models.DigestMap, models.ScanStats, error) {
	scanner := scan.New(backend, e.hasher,
		scan.WithDisplayRoot(root),
		scan.WithFilter(e.options.Filter),
		scan.WithLogger(logger),
		scan.WithProgress(e.options.Progress),
	)

	digests, err := scanner.Scan(ctx)
	if err != nil {
		return nil, scanner.Stats(), err
	}
	return digests, scanner.Stats(), nil
}

// verify checks every same pair byte-by-byte and demotes the pairs that differ
func (e *Engine) verify(ctx context.Context, report *models.Report, logger logging.Logger) error {
	result := report.Result
	for _, pair := range result.SameEntries() {
		leftRel, err := filepath.Rel(e.options.LeftRoot, pair.Left)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", pair.Left, err)
		}
		rightRel, err := filepath.Rel(e.options.RightRoot, pair.Right)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", pair.Right, err)
		}

		same, reason, err := e.options.Verifier.Verify(ctx, e.left, e.right, leftRel, rightRel)
		if err != nil {
			return err
		}
		if same {
			continue
		}

		logger.Warn(ctx, "Digest match differs byte-by-byte", logging.Fields{
			"hash":   pair.Hash,
			"left":   pair.Left,
			"right":  pair.Right,
			"reason": reason,
		})
		report.Mismatches = append(report.Mismatches, models.Mismatch{
			Hash:   pair.Hash,
			Left:   pair.Left,
			Right:  pair.Right,
			Reason: reason,
		})
		delete(result.Same, pair.Hash)
		result.OnlyLeft[pair.Hash] = pair.Left
		result.OnlyRight[pair.Hash] = pair.Right
	}

	logger.Debug(ctx, "Verification complete", logging.Fields{
		"pairs":      len(result.Same) + len(report.Mismatches),
		"mismatches": len(report.Mismatches),
	})
	return nil
}
