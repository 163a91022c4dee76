package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SunDr17/stencil/internal/selfcontained"
	"github.com/SunDr17/stencil/internal/style"
)

var modesCmd = &cobra.Command{
	Use:   "modes [path]",
	Short: "List the style modes of a project",
	Long:  "Print every style mode the build would specialise the bundle for, one per line, in discovery order.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject(args)
		if err != nil {
			return err
		}
		verbose, err := cmd.Flags().GetBool("files")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, mode := range style.AllModes(proj.Components) {
			if !verbose {
				fmt.Fprintln(out, mode)
				continue
			}
			var files []string
			for _, cmp := range proj.Components {
				files = append(files, selfcontained.FileName(cmp.Tag, mode))
			}
			fmt.Fprintf(out, "%s\t%d components\n", mode, len(files))
			for _, f := range files {
				fmt.Fprintf(out, "  %s\n", f)
			}
		}
		return nil
	},
}

func init() {
	modesCmd.Flags().Bool("files", false, "also list the file name of every component per mode")
}
