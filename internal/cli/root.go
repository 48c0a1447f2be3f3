// Package cli implements the sheetcheck command line tool.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/sheetcheck/internal/logging"
)

// errFindings makes the process exit non-zero after output was written.
var errFindings = errors.New("problems found")

type app struct {
	v        *viper.Viper
	cfgFile  string
	settings *Settings
	out      io.Writer
}

// NewRootCommand builds the command tree. Output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:   "sheetcheck",
		Short: "Find delimiter and region/location defects in spreadsheets",
		Long: `sheetcheck inspects CSV and Excel files for inconsistent delimiters,
unknown region labels and rows whose region does not match the location.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := LoadSettings(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.settings = s
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), s.LogLevel, "text"))
			return nil
		},
	}
	root.SetOut(out)

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default ./sheetcheck.yaml or ~/.sheetcheck/sheetcheck.yaml)")
	f.StringP("output", "o", FormatText, "output format: text, json or yaml")
	f.String("log-level", "warn", "log level: debug, info, warn or error")
	f.String("resolver", "header", "column resolver: header, chat or none")
	f.String("location-column", "", "location column name")
	f.String("region-column", "", "region column name")
	for flag, key := range map[string]string{
		"output":          "output",
		"log-level":       "log_level",
		"resolver":        "resolver",
		"location-column": "location_column",
		"region-column":   "region_column",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}

	root.AddCommand(
		a.analyzeCommand(),
		a.delimitersCommand(),
		a.checkCommand(),
		a.taxonomyCommand(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return 1
	}
	return 0
}
