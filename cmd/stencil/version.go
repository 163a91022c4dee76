package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SunDr17/stencil/internal/manifest"
	"github.com/SunDr17/stencil/internal/testrunner"
	"github.com/SunDr17/stencil/internal/version"
)

// versionReport is everything `stencil version` can print. Optional fields
// stay empty unless the matching flag asked for them.
type versionReport struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	Go        string `json:"go,omitempty"`
	Esbuild   string `json:"esbuild,omitempty"`
	Manifest  uint16 `json:"manifest_schema,omitempty"`
	Jest      string `json:"jest,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show stencil build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		format, err := flags.GetString("format")
		if err != nil {
			return err
		}
		format = strings.ToLower(strings.TrimSpace(format))
		if format != "pretty" && format != "json" {
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
		full, err := flags.GetBool("full")
		if err != nil {
			return err
		}
		hash, err := flags.GetBool("hash")
		if err != nil {
			return err
		}
		date, err := flags.GetBool("date")
		if err != nil {
			return err
		}

		rep := collectVersion(hash || full, date || full, full)
		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		printVersion(cmd.OutOrStdout(), rep)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "also show toolchain, optimizer, manifest schema and supported Jest range")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func collectVersion(hash, date, toolchain bool) versionReport {
	rep := versionReport{Tool: "stencil", Version: strings.TrimSpace(version.Version)}
	if rep.Version == "" {
		rep.Version = "dev"
	}
	if hash {
		rep.GitCommit = orUnknown(version.GitCommit)
	}
	if date {
		rep.BuildDate = orUnknown(version.BuildDate)
	}
	if toolchain {
		rep.Go = runtime.Version()
		rep.Esbuild = orUnknown(version.Dependency(version.EsbuildModule))
		rep.Manifest = manifest.SchemaVersion
		rep.Jest = testrunner.SupportedRange
	}
	return rep
}

func printVersion(out io.Writer, rep versionReport) {
	fmt.Fprintf(out, "stencil %s\n", version.Colored())
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(out, "%-9s %s\n", label+":", value)
		}
	}
	line("commit", rep.GitCommit)
	line("built", rep.BuildDate)
	line("go", rep.Go)
	line("esbuild", rep.Esbuild)
	if rep.Manifest != 0 {
		line("manifest", fmt.Sprintf("schema v%d", rep.Manifest))
	}
	line("jest", rep.Jest)
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
