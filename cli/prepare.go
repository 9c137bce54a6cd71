package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/backend"
)

func prepareCmd(opts *options) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "prepare <directory>",
		Short: "Decode and scale every picture of a directory without showing them",
		Long: `Prepare runs the same image loading as the GUI and reports which
pictures could not be loaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := opts.params(cmd, args[0])
			if err != nil {
				return err
			}
			results, err := backend.PrepareDirectory(cmd.Context(), params, params.RootPath(), api.NoopProgressReporter{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ready, failed := 0, 0
			for _, result := range results {
				switch result.Status {
				case apitype.LoadReady:
					ready++
					if verbose {
						fmt.Fprintf(out, "ready  %s (%s)\n", result.ImageFile.Path(), result.Size)
					}
				case apitype.LoadFailed:
					failed++
					fmt.Fprintf(out, "failed %s: %s\n", result.ImageFile.Path(), result.Err)
				}
			}
			fmt.Fprintf(out, "%d pictures: %d ready, %d failed\n", len(results), ready, failed)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also list the pictures that were loaded")
	return cmd
}
