package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Surface is the pixel geometry of a standalone map image.
type Surface struct {
	WidthCm  float64
	HeightCm float64
	DPI      int
}

// NewImageCanvas allocates an image-backed drawing canvas of the given
// surface geometry. The vgimg canvas is returned alongside the generic
// drawing target so the caller can encode it afterwards.
func NewImageCanvas(s Surface) (*vgimg.Canvas, draw.Canvas) {
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(s.WidthCm)*vg.Centimeter, vg.Length(s.HeightCm)*vg.Centimeter),
		vgimg.UseDPI(s.DPI),
	)
	return img, draw.New(img)
}

// WritePNG encodes a rendered image canvas as PNG.
func WritePNG(img *vgimg.Canvas, w io.Writer) error {
	pngc := vgimg.PngCanvas{Canvas: img}
	if _, err := pngc.WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
