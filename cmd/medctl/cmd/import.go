package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpfielding/medview.go/pkg/importer"
)

// NewImportCmd imports a series directory or file list and prints a
// summary of the reconstructed volume.
func NewImportCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "import a DICOM series into a 3D volume",
		Long:  "Parses a series directory or an ordered file list, maps the domain entities, and reconstructs the volume.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importSeries(ctx, cmd, args)
			if err != nil {
				return err
			}

			vol := res.Volume
			sx, sy, sz := vol.Spacing()
			px, py, pz := vol.PhysicalSize()
			fmt.Printf("Import:     %s\n", res.ID)
			fmt.Printf("Patient:    %s (%s)\n", res.Patient.Name.Display(), res.Patient.ID)
			fmt.Printf("Study:      %s\n", res.Study.StudyInstanceUID)
			fmt.Printf("Series:     %s [%s]\n", res.Series.SeriesInstanceUID, res.Series.Modality)
			fmt.Printf("Images:     %d\n", len(res.Images))
			fmt.Printf("Volume:     %dx%dx%d %s (%d bytes)\n",
				vol.Width(), vol.Height(), vol.Depth(), vol.SampleType(), vol.NumBytes())
			fmt.Printf("Spacing:    %.3f x %.3f x %.3f mm\n", sx, sy, sz)
			fmt.Printf("Extent:     %.1f x %.1f x %.1f mm\n", px, py, pz)
			fmt.Printf("Read:       %d bytes\n", res.TotalBytes)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("dir", "d", "", "series directory to import")
	return cmd
}

// importSeries resolves the --dir flag or positional file list shared
// by the import, slice, and render commands.
func importSeries(ctx context.Context, cmd *cobra.Command, args []string) (*importer.Result, error) {
	dir, _ := cmd.Flags().GetString("dir")
	opts := importer.Options{Workers: cfg.Import.Workers}
	switch {
	case dir != "":
		return importer.ImportDir(ctx, dir, opts)
	case len(args) > 0:
		for _, p := range args {
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("input %s: %w", p, err)
			}
		}
		return importer.ImportFiles(ctx, args, opts)
	default:
		return nil, fmt.Errorf("a series directory (--dir) or file list is required")
	}
}
