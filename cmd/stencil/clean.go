package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/SunDr17/stencil/internal/manifest"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove the artifacts recorded by the last build",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject(args)
		if err != nil {
			return err
		}
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		store := manifest.NewStore(proj.ManifestPath)
		m, ok, err := store.Load()
		if err != nil {
			return err
		}
		if !ok {
			if !quiet {
				fmt.Fprintln(out, "nothing to clean")
			}
			return nil
		}
		if dryRun {
			for _, p := range m.Paths() {
				fmt.Fprintf(out, "would remove %s\n", formatPathForOutput(proj.Root, p))
			}
			return nil
		}

		removed, rmErr := manifest.RemoveEntries(afero.NewOsFs(), m.Entries)
		if !quiet {
			for _, p := range removed {
				fmt.Fprintf(out, "removed %s\n", formatPathForOutput(proj.Root, p))
			}
		}
		if rmErr != nil {
			// манифест оставляем: по нему можно повторить очистку
			return rmErr
		}
		return store.Remove()
	},
}

func init() {
	cleanCmd.Flags().Bool("dry-run", false, "only list the files that would be removed")
}
