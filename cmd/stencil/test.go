package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SunDr17/stencil/internal/output"
	"github.com/SunDr17/stencil/internal/project"
	"github.com/SunDr17/stencil/internal/testrunner"
)

var testCmd = &cobra.Command{
	Use:   "test [flags] [-- jest args]",
	Short: "Run component tests with the installed Jest",
	Long:  "Detect the installed Jest version, prepare the matching configuration and run it. Arguments after -- are passed to Jest.",
	RunE:  testExecution,
}

func testExecution(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	var (
		opts testrunner.RunOptions
		err  error
	)
	if opts.Spec, err = flags.GetBool("spec"); err != nil {
		return err
	}
	if opts.E2E, err = flags.GetBool("e2e"); err != nil {
		return err
	}
	if opts.CI, err = flags.GetBool("ci"); err != nil {
		return err
	}
	if opts.MaxWorkers, err = flags.GetInt("max-workers"); err != nil {
		return err
	}
	dryRun, err := flags.GetBool("dry-run")
	if err != nil {
		return err
	}
	opts.Args = args

	root, err := project.Root(".")
	if errors.Is(err, project.ErrNoProject) {
		root, err = os.Getwd()
	}
	if err != nil {
		return err
	}

	adapter, err := testrunner.Detect(root)
	if err != nil {
		return err
	}
	output.Debug("jest detected", "version", adapter.Version(), "variant", adapter.Variant(), "runner", adapter.DefaultRunner())

	inv, err := adapter.Prepare(root, opts)
	if err != nil {
		return err
	}
	if dryRun {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# jest %s (%s, runner %s)\n", adapter.Version(), adapter.Variant(), adapter.DefaultRunner())
		fmt.Fprintf(out, "cd %s\n", inv.Dir)
		fmt.Fprintf(out, "%s %s\n", inv.Bin, strings.Join(inv.Args, " "))
		return nil
	}

	passed, err := inv.Run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !passed {
		return errFailed
	}
	return nil
}

func init() {
	testCmd.Flags().Bool("spec", false, "run spec tests")
	testCmd.Flags().Bool("e2e", false, "run end-to-end tests")
	testCmd.Flags().Bool("ci", false, "run in CI mode")
	testCmd.Flags().Int("max-workers", 0, "maximum number of Jest workers (0 = Jest default)")
	testCmd.Flags().Bool("dry-run", false, "print the Jest invocation instead of running it")
}
