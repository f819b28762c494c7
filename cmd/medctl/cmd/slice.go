package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpfielding/medview.go/pkg/volume"
)

// NewSliceCmd extracts one plane from an imported volume and writes it
// as an 8-bit PNG.
func NewSliceCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slice [files...]",
		Short: "extract a 2D slice from an imported volume",
		Long:  "Imports a series, extracts an axial, coronal, or sagittal slice, applies the display window, and writes a PNG.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importSeries(ctx, cmd, args)
			if err != nil {
				return err
			}

			plane, err := parsePlane(must(cmd.Flags().GetString("plane")))
			if err != nil {
				return err
			}
			index, _ := cmd.Flags().GetInt("index")
			if index < 0 {
				index = res.Volume.SliceCount(plane) / 2
			}

			s, err := res.Volume.Extract(plane, index)
			if err != nil {
				return err
			}

			center, width := s.Window()
			if c, _ := cmd.Flags().GetFloat64("center"); c != 0 {
				center = c
			}
			if w, _ := cmd.Flags().GetFloat64("width"); w != 0 {
				width = w
			}

			gray := &image.Gray{
				Pix:    s.Window8(center, width),
				Stride: s.Width(),
				Rect:   image.Rect(0, 0, s.Width(), s.Height()),
			}
			out := must(cmd.Flags().GetString("out"))
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := png.Encode(f, gray); err != nil {
				return err
			}
			fmt.Printf("wrote %s slice %d (%dx%d) to %s\n", plane, index, s.Width(), s.Height(), out)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("dir", "d", "", "series directory to import")
	pf.StringP("plane", "p", "axial", "extraction plane (axial|coronal|sagittal)")
	pf.IntP("index", "i", -1, "slice index, -1 = middle")
	pf.Float64("center", 0, "window center override")
	pf.Float64("width", 0, "window width override")
	pf.StringP("out", "o", "slice.png", "output PNG path")
	return cmd
}

func parsePlane(s string) (volume.Plane, error) {
	switch s {
	case "axial":
		return volume.Axial, nil
	case "coronal":
		return volume.Coronal, nil
	case "sagittal":
		return volume.Sagittal, nil
	}
	return 0, fmt.Errorf("unknown plane %q (axial|coronal|sagittal)", s)
}

func must[T any](v T, _ error) T { return v }
