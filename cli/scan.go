package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"vincit.fi/picture-triage/backend"
)

type scannedImage struct {
	Path      string `json:"path"`
	Directory string `json:"directory"`
	Name      string `json:"name"`
}

type scanResult struct {
	Root   string         `json:"root"`
	Count  int            `json:"count"`
	Images []scannedImage `json:"images"`
}

func scanCmd(opts *options) *cobra.Command {
	var asJson bool
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "List the pictures that would be shown for a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := opts.params(cmd, args[0])
			if err != nil {
				return err
			}
			imageFiles, err := backend.ScanDirectory(params, params.RootPath())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !asJson {
				for _, imageFile := range imageFiles {
					fmt.Fprintln(out, imageFile.Path())
				}
				return nil
			}

			result := scanResult{Root: params.RootPath(), Count: len(imageFiles), Images: []scannedImage{}}
			for _, imageFile := range imageFiles {
				result.Images = append(result.Images, scannedImage{
					Path:      imageFile.Path(),
					Directory: imageFile.Directory(),
					Name:      imageFile.FileName(),
				})
			}
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}
	cmd.Flags().BoolVar(&asJson, "json", false, "print the result as JSON")
	return cmd
}
