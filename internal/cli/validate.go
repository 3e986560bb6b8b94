package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/hadidi/internal/platform"
	"github.com/sdejongh/hadidi/pkg/config"
	"github.com/sdejongh/hadidi/pkg/digest"
	"github.com/sdejongh/hadidi/pkg/models"
)

// validateRoots checks that both roots exist and are directories
func validateRoots(roots ...string) error {
	for _, root := range roots {
		if err := platform.ValidatePath(root); err != nil {
			return models.NewError(models.KindInvalidArguments, "", err)
		}

		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			return models.NewError(models.KindInvalidArguments, root, fmt.Errorf("directory does not exist"))
		} else if err != nil {
			return models.NewError(models.KindIO, root, err)
		} else if !info.IsDir() {
			return models.NewError(models.KindInvalidArguments, root, fmt.Errorf("not a directory"))
		}
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig(flags *compareFlags) (*config.Config, error) {
	if flags.ConfigFile != "" {
		return config.LoadFromFile(flags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with the flags set on the
// command line and validates the result
func applyFlagsToConfig(cmd *cobra.Command, flags *compareFlags, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("alg") {
		cfg.Compare.Algorithm = flags.Algorithm
	}
	if changed("filter") {
		cfg.Compare.Filters = flags.Filters
	}
	if changed("exclude") {
		cfg.Compare.Exclude = flags.Exclude
	}
	if changed("same") {
		cfg.Compare.Same = flags.Same
	}
	if changed("hash") {
		cfg.Compare.Hash = flags.Hash
	}
	if changed("verify") {
		cfg.Compare.Verify = flags.Verify
	}

	if changed("output") {
		cfg.Output.Format = flags.Output
	}
	if changed("report-format") {
		cfg.Output.ReportFormat = flags.ReportFormat
	}
	if changed("progress") {
		cfg.Output.Progress = flags.Progress
	}

	if changed("read-limit") {
		cfg.Performance.ReadLimit = flags.ReadLimit.String()
	}

	if changed("log-file") {
		cfg.Logging.File = flags.LogFile
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.LogFormat
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.LogLevel
	}

	// An unknown algorithm keeps its own error kind
	if changed("alg") {
		if _, err := digest.Lookup(cfg.Compare.Algorithm); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid option: %w", err)
	}
	return nil
}
