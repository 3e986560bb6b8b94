package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/hadidi/internal/platform"
	"github.com/sdejongh/hadidi/pkg/compare"
	"github.com/sdejongh/hadidi/pkg/digest"
	"github.com/sdejongh/hadidi/pkg/filter"
	"github.com/sdejongh/hadidi/pkg/logging"
	"github.com/sdejongh/hadidi/pkg/models"
	"github.com/sdejongh/hadidi/pkg/output"
	"github.com/sdejongh/hadidi/pkg/ratelimit"
	"github.com/sdejongh/hadidi/pkg/storage"
)

func runCompare(cmd *cobra.Command, flags *compareFlags, leftDir, rightDir string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cmd, flags, cfg); err != nil {
		return err
	}

	if err := validateRoots(leftDir, rightDir); err != nil {
		return err
	}

	pattern, err := filter.Compile(cfg.Compare.Filters, cfg.Compare.Exclude)
	if err != nil {
		return err
	}

	alg, err := digest.Lookup(cfg.Compare.Algorithm)
	if err != nil {
		return err
	}

	// Resolve the formatter before scanning so a bad format fails fast
	var formatter output.Formatter
	opts := output.Options{ShowHashes: cfg.Compare.Hash, ShowSame: cfg.Compare.Same, Width: cfg.Output.Width}
	if !flags.Quiet {
		formatter, err = output.NewFormatter(cfg.Output.Format, opts)
		if err != nil {
			return err
		}
	}

	// Create logger
	logger, err := createLogger(cfg.Logging, flags.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	// Create storage backends
	left, err := storage.NewLocal(platform.NormalizePath(leftDir))
	if err != nil {
		return models.NewError(models.KindIO, leftDir, err)
	}
	defer left.Close()

	right, err := storage.NewLocal(platform.NormalizePath(rightDir))
	if err != nil {
		return models.NewError(models.KindIO, rightDir, err)
	}
	defer right.Close()

	hasher := digest.NewHasher(alg, cfg.Performance.BufferSize)
	var verifier *compare.Verifier
	if cfg.Compare.Verify {
		verifier = compare.NewVerifier(cfg.Performance.BufferSize)
	}

	// Hashing and verification share one read budget
	readLimit, err := ratelimit.ParseRate(cfg.Performance.ReadLimit)
	if err != nil {
		return models.NewError(models.KindInvalidArguments, "", fmt.Errorf("invalid read limit: %w", err))
	}
	if limiter := ratelimit.NewLimiter(readLimit); limiter != nil {
		wrap := func(rc io.ReadCloser) io.ReadCloser {
			return ratelimit.NewReadCloser(ctx, rc, limiter)
		}
		hasher.SetReaderWrapper(wrap)
		if verifier != nil {
			verifier.SetReaderWrapper(wrap)
		}
		logger.Debug(ctx, "Read limit enabled", logging.Fields{"rate": ratelimit.FormatRate(readLimit)})
	}

	engine := compare.NewEngine(left, right, hasher, compare.Options{
		ID:        uuid.New().String(),
		LeftRoot:  leftDir,
		RightRoot: rightDir,
		Filter:    pattern,
		Logger:    logger,
		Progress:  output.NewProgress(cmd.ErrOrStderr(), cfg.Output.Progress && !flags.Quiet),
		Verifier:  verifier,
	})

	report, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	// Write the report file if requested, even in quiet mode
	if flags.Report != "" {
		if err := output.WriteReport(report, flags.Report, cfg.Output.ReportFormat, opts); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if flags.Quiet {
		if code := report.Status.ExitCode(); code != 0 {
			return &ExitError{Code: code}
		}
		return nil
	}

	return formatter.Render(cmd.OutOrStdout(), report)
}
