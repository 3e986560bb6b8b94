package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sdejongh/hadidi/pkg/ratelimit"
)

// compareFlags holds the flag values of one root command instance
type compareFlags struct {
	ConfigFile   string
	Quiet        bool
	Same         bool
	Hash         bool
	Verify       bool
	Filters      []string
	Exclude      []string
	Algorithm    string
	Output       string
	Report       string
	ReportFormat string
	Progress     bool
	ReadLimit    rateValue
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
	Verbose   bool
}

// rateValue is a pflag.Value accepting byte rates such as "50MB" or "10MiB/s"
type rateValue struct {
	text string
}

var _ pflag.Value = (*rateValue)(nil)

func (r *rateValue) String() string {
	return r.text
}

func (r *rateValue) Set(s string) error {
	if _, err := ratelimit.ParseRate(s); err != nil {
		return err
	}
	r.text = s
	return nil
}

func (r *rateValue) Type() string {
	return "rate"
}

// addGlobalFlags adds the flags shared with subcommands
func addGlobalFlags(cmd *cobra.Command, flags *compareFlags) {
	cmd.PersistentFlags().StringVar(
		&flags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/hadidi/config.yaml)",
	)
}

// addCompareFlags adds the comparison flags to the root command
func addCompareFlags(cmd *cobra.Command, flags *compareFlags) {
	f := cmd.Flags()
	f.BoolVarP(&flags.Quiet, "quiet", "q", false, "no output; exit 1 if any differences exist, 0 if none")
	f.BoolVarP(&flags.Same, "same", "s", false, "also print files with the same hashes")
	f.BoolVarP(&flags.Hash, "hash", "a", false, "also print hashes for files")
	f.BoolVar(&flags.Verify, "verify", false, "compare files with the same hash byte-by-byte")
	// Regexes may contain commas, so each value is taken verbatim
	f.StringArrayVarP(&flags.Filters, "filter", "f", nil, "exclude files whose name matches REGEX (repeatable)")
	f.StringSliceVarP(&flags.Exclude, "exclude", "e", nil, "glob patterns to exclude")
	f.StringVarP(&flags.Algorithm, "alg", "l", "md5", "hash algorithm")
	f.StringVarP(&flags.Output, "output", "o", "human", "output format: human, json, table")
	f.StringVar(&flags.Report, "report", "", "also write the report to file")
	f.StringVar(&flags.ReportFormat, "report-format", "human", "report file format: human, json")
	f.BoolVar(&flags.Progress, "progress", false, "show scan progress on stderr (terminals only)")
	f.Var(&flags.ReadLimit, "read-limit", "limit hashing read rate (e.g., \"50MB\", 0 = unlimited)")

	// Logging flags
	f.StringVar(&flags.LogFile, "log-file", "", "write logs to file (enables logging)")
	f.StringVar(&flags.LogFormat, "log-format", "text", "log format: text, json")
	f.StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.BoolVar(&flags.Verbose, "verbose", false, "log at debug level to stderr")
}
