package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robotomize/go-junit/internal/config"
	"github.com/robotomize/go-junit/internal/fs"
	"github.com/robotomize/go-junit/internal/junit"
	"github.com/robotomize/go-junit/internal/logging"
)

var (
	inputFlag       []string
	formatFlag      string
	outputDirFlag   string
	prefixFlag      string
	configFlag      string
	wrappedFlag     bool
	uidNamesFlag    bool
	stripANSIFlag   bool
	verboseFlag     bool
	silentOutput    bool
	forwardExitCode bool
)

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(
		&inputFlag,
		"input",
		"i",
		nil,
		"input files, globs allowed: -i 'reports/**/*.json'. Reads stdin when empty",
	)
	rootCmd.PersistentFlags().StringVarP(
		&formatFlag,
		"format",
		"f",
		FormatCucumber,
		"input format: cucumber or gotest",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputDirFlag,
		"output",
		"o",
		"",
		"output directory for junit reports: -o <report-path>",
	)
	rootCmd.PersistentFlags().StringVarP(
		&prefixFlag,
		"prefix",
		"",
		"",
		"report file name prefix: --prefix features",
	)
	rootCmd.PersistentFlags().StringVarP(
		&configFlag,
		"config",
		"c",
		"",
		"path to a yaml config file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&wrappedFlag,
		"wrapped",
		"w",
		false,
		"wrap every testsuite in a testsuites element",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&uidNamesFlag,
		"uid-names",
		"",
		false,
		"append the @uid tag to feature and scenario names",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&stripANSIFlag,
		"strip-ansi",
		"",
		false,
		"strip terminal escape sequences from captured output",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verboseFlag,
		"verbose",
		"v",
		false,
		"verbose",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&silentOutput,
		"silent",
		"s",
		false,
		"do not print the summary table",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&forwardExitCode,
		"forward-exit",
		"e",
		false,
		"exit with code 1 when any scenario failed or errored",
	)
}

var rootCmd = &cobra.Command{
	Use:          "gojunitctl",
	Long:         "Convert cucumber JSON or go test -json output to JUnit XML reports",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		pwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("os.Getwd: %w", err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Converting %s results to junit reports\n", formatFlag)

		summary, err := run(
			ctx, params{
				cfg:      cfg,
				format:   formatFlag,
				patterns: inputFlag,
				fsys:     fs.New(pwd),
				stdin:    cmd.InOrStdin(),
				logger:   logging.New(cmd.ErrOrStderr(), verboseFlag),
			},
		)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		if !silentOutput {
			summary.Render(cmd.OutOrStdout())
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Conversion completed successfully\n")

		if forwardExitCode && summary.Failed() {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "One or more scenarios failed. exiting with error 1\n")
			os.Exit(1)
		}

		return nil
	},
}

// loadConfig applies the config file, then the environment, then the flags set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return config.Config{}, fmt.Errorf("config.Load: %w", err)
	}

	cfg.ApplyEnv(os.LookupEnv)

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.ReportDir = outputDirFlag
	}

	if flags.Changed("prefix") {
		cfg.Prefix = prefixFlag
	}

	if wrappedFlag {
		cfg.Layout = junit.LayoutWrapped.String()
	}

	if uidNamesFlag {
		cfg.UIDNames = true
	}

	if stripANSIFlag {
		cfg.StripANSI = true
	}

	if err = cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}
