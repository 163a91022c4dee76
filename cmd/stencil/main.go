// Package main implements the stencil CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SunDr17/stencil/internal/output"
	"github.com/SunDr17/stencil/internal/prof"
	"github.com/SunDr17/stencil/internal/version"
)

// profiling is the active profile session, stopped when main returns.
var profiling *prof.Session

// errFailed signals a non-zero exit after its cause was already printed.
var errFailed = errors.New("build failed")

var rootCmd = &cobra.Command{
	Use:           "stencil",
	Short:         "Self-contained web component output",
	Long:          `Stencil writes one self-contained script per component, style mode and output target.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return err
		}
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}
		output.SetupLogging(verbose, quiet)

		colorValue, err := cmd.Flags().GetString("color")
		if err != nil {
			return err
		}
		on, err := resolveColor(colorValue, os.Stdout)
		if err != nil {
			return err
		}
		color.NoColor = !on

		var popts prof.Options
		if popts.CPU, err = cmd.Flags().GetString("cpu-profile"); err != nil {
			return err
		}
		if popts.Mem, err = cmd.Flags().GetString("mem-profile"); err != nil {
			return err
		}
		if popts.Trace, err = cmd.Flags().GetString("trace-profile"); err != nil {
			return err
		}
		if popts.Enabled() {
			if profiling, err = prof.Start(popts); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("trace-profile", "", "write a runtime execution trace to this file")
}

// main sets the command version and executes the root command.
// Any error exits with status code 1.
func main() {
	rootCmd.Version = version.Version
	err := rootCmd.Execute()
	if stopErr := profiling.Stop(); stopErr != nil {
		fmt.Fprintln(os.Stderr, "warning: profiling:", stopErr)
	}
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func resolveColor(value string, f *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
