package cmd

import (
	"context"
	"fmt"
	"image/png"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpfielding/medview.go/pkg/render"
)

// NewRenderCmd ray-casts one frame of an imported volume to a PNG.
func NewRenderCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "ray-cast a volume to a 2D frame",
		Long:  "Imports a series and renders one frame with DVR, MIP, or MinIP projection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importSeries(ctx, cmd, args)
			if err != nil {
				return err
			}

			mode, err := parseMode(must(cmd.Flags().GetString("mode")))
			if err != nil {
				return err
			}

			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			if width == 0 {
				width = cfg.Render.Width
			}
			if height == 0 {
				height = cfg.Render.Height
			}

			azimuth, _ := cmd.Flags().GetFloat64("azimuth")
			elevation, _ := cmd.Flags().GetFloat64("elevation")
			distance, _ := cmd.Flags().GetFloat64("distance")
			cam, err := render.OrbitCamera(
				azimuth*math.Pi/180, elevation*math.Pi/180, distance,
				45*math.Pi/180, float64(width)/float64(height))
			if err != nil {
				return err
			}

			p := render.Params{
				Width:        width,
				Height:       height,
				Mode:         mode,
				Transfer:     render.Grayscale(),
				StepSize:     cfg.Render.StepSize,
				MaxSteps:     cfg.Render.MaxSteps,
				DensityScale: cfg.Render.DensityScale,
				Shading:      cfg.Render.Shading,
				Workers:      cfg.Import.Workers,
			}
			if c, _ := cmd.Flags().GetFloat64("center"); c != 0 {
				p.WindowCenter = c
			}
			if w, _ := cmd.Flags().GetFloat64("window"); w != 0 {
				p.WindowWidth = w
			}
			if s, _ := cmd.Flags().GetFloat64("step"); s > 0 {
				p.StepSize = s
			}
			if d, _ := cmd.Flags().GetFloat64("density"); d > 0 {
				p.DensityScale = d
			}

			frame := render.Render(res.Volume, cam, p)

			out := must(cmd.Flags().GetString("out"))
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := png.Encode(f, frame.ToImage()); err != nil {
				return err
			}
			fmt.Printf("rendered %dx%d %s frame to %s\n", width, height, must(cmd.Flags().GetString("mode")), out)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("dir", "d", "", "series directory to import")
	pf.StringP("mode", "m", "dvr", "projection mode (dvr|mip|minip)")
	pf.Int("width", 0, "frame width, 0 = config default")
	pf.Int("height", 0, "frame height, 0 = config default")
	pf.Float64("azimuth", 30, "camera azimuth in degrees")
	pf.Float64("elevation", 20, "camera elevation in degrees")
	pf.Float64("distance", 2.5, "camera distance from volume center")
	pf.Float64("center", 0, "window center override")
	pf.Float64("window", 0, "window width override")
	pf.Float64("step", 0, "march step size in normalized units")
	pf.Float64("density", 0, "opacity scale per sample")
	pf.StringP("out", "o", "frame.png", "output PNG path")
	return cmd
}

func parseMode(s string) (render.Mode, error) {
	switch s {
	case "dvr":
		return render.DVR, nil
	case "mip":
		return render.MIP, nil
	case "minip":
		return render.MinIP, nil
	}
	return 0, fmt.Errorf("unknown mode %q (dvr|mip|minip)", s)
}
