package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpfielding/medview.go/pkg/forge"
)

// NewForgeCmd writes a synthetic CT series for testing the pipeline
// without patient data.
func NewForgeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forge",
		Short: "generate a synthetic CT series",
		Long:  "Writes a phantom CT series (sphere-in-shell) usable by the import, slice, and render commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("out-dir")
			rows, _ := cmd.Flags().GetInt("rows")
			cols, _ := cmd.Flags().GetInt("cols")
			slices, _ := cmd.Flags().GetInt("slices")

			paths, err := forge.WriteSeries(dir, forge.SeriesParams{
				Rows:    rows,
				Columns: cols,
				Slices:  slices,
			})
			if err != nil {
				return err
			}
			fmt.Printf("wrote %d slices to %s\n", len(paths), dir)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.String("out-dir", "phantom", "output directory")
	pf.Int("rows", 128, "rows per slice")
	pf.Int("cols", 128, "columns per slice")
	pf.Int("slices", 16, "number of slices")
	return cmd
}
