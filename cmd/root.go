package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	v1 "github.com/djcass44/debdeps/pkg/api/v1"
	"github.com/djcass44/debdeps/pkg/source"
	"github.com/djcass44/go-utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	flagLogLevel    = "v"
	flagPackageName = "package-name"
	flagRepoURL     = "repo-url"
	flagMode        = "mode"
	flagOutput      = "output"
	flagConfig      = "config"
)

// NewCommand builds the root command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "debdeps",
		Short:        "list the direct dependencies of a package in a Debian repository index",
		Args:         noArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetInt(flagLogLevel)

			zc := zap.NewProductionConfig()
			zc.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel * -1))

			_, ctx := logging.NewZap(cmd.Context(), zc)
			cmd.SetContext(ctx)
		},
		RunE: run,
	}

	cmd.PersistentFlags().Int(flagLogLevel, 0, "log level. Higher is more")

	cmd.Flags().StringP(flagPackageName, "n", "", "name of the package to inspect (e.g. curl)")
	cmd.Flags().StringP(flagRepoURL, "u", "", "repository index URL or path to a local index file")
	cmd.Flags().StringP(flagMode, "m", "", fmt.Sprintf("how to access the repository: %s", joinValues(source.Modes)))
	cmd.Flags().StringP(flagOutput, "o", string(v1.OutputASCIITree), fmt.Sprintf("output format: %s", joinValues(v1.OutputFormats)))
	cmd.Flags().StringP(flagConfig, "c", "", "path to a query configuration file")

	_ = cmd.MarkFlagFilename(flagConfig, ".yaml", ".yml", ".json")
	_ = cmd.RegisterFlagCompletionFunc(flagMode, completeValues(source.Modes))
	_ = cmd.RegisterFlagCompletionFunc(flagOutput, completeValues(v1.OutputFormats))

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	return cmd
}

func Execute(version string) {
	command := NewCommand()
	command.Version = version
	if err := command.Execute(); err != nil {
		code := exitCode(err)
		if code == exitUsage {
			_, _ = fmt.Fprint(command.ErrOrStderr(), command.UsageString())
		}
		os.Exit(code)
	}
}

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// exitCode maps the error returned by the command to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return exitUsage
	}
	return exitError
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i := range values {
		s[i] = string(values[i])
	}
	return strings.Join(s, ", ")
}

func completeValues[T ~string](values []T) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		s := make([]string, len(values))
		for i := range values {
			s[i] = string(values[i])
		}
		return s, cobra.ShellCompDirectiveNoFileComp
	}
}
