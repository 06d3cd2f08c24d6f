package main

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/okian/techrank/internal/adapters/source"
	app "github.com/okian/techrank/internal/app"
	"github.com/okian/techrank/pkg/logger"
)

var errUsage = errors.New("usage")

// inputOptions are the parse flags shared by commands that read a file.
type inputOptions struct {
	format    string
	delimiter string
	sheet     string
}

func (o *inputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "input-format", "auto", "Input format: auto, csv or xlsx")
	cmd.Flags().StringVar(&o.delimiter, "delimiter", ",", "CSV field delimiter (one character)")
	cmd.Flags().StringVar(&o.sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
}

// service opens path and returns a dataset service over it.
func (o *inputOptions) service(path string, minRankChange int) (*app.Service, error) {
	format, err := source.ParseFormat(o.format)
	if err != nil {
		return nil, fmt.Errorf("%w: --input-format: %w", errUsage, err)
	}
	if utf8.RuneCountInString(o.delimiter) != 1 {
		return nil, fmt.Errorf("%w: --delimiter must be a single character", errUsage)
	}
	delim, _ := utf8.DecodeRuneInString(o.delimiter)

	loader, err := source.Open(path, source.WithFormat(format), source.WithDelimiter(delim), source.WithSheet(o.sheet))
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLoader(loader),
		app.WithLogger(logger.Named("rankctl")),
		app.WithDefaultMinRankChange(minRankChange),
	), nil
}

func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:          "rankctl",
		Short:        "Normalize technology ranking tables",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithFormat(logFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return fmt.Errorf("%w: --log-level: %w", errUsage, err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(newNormalizeCmd(), newChartCmd(), newVerifyCmd())
	return cmd
}
