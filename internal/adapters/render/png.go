package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/emiliopalmerini/stresschart/internal/chart"
)

const titleFontSize = 16

// PNGRenderer rasterizes each panel and places them side by side under the
// figure title, with the shared legend in a column on the right.
type PNGRenderer struct{}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

func (r *PNGRenderer) ContentType() string { return "image/png" }

func (r *PNGRenderer) Render(ctx context.Context, w io.Writer, fig *chart.Figure) error {
	if err := fig.Validate(); err != nil {
		return err
	}

	layout := layoutFigure(fig)
	canvas := image.NewRGBA(image.Rect(0, 0, fig.Layout.Width, fig.Layout.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(parseColor(fig.Layout.Background, 1)), image.Point{}, draw.Src)
	if err := drawTitle(canvas, layout.Title, fig.Layout.Title); err != nil {
		return err
	}

	for i := range fig.Panels {
		if err := ctx.Err(); err != nil {
			return err
		}
		box := layout.Panels[i]
		raw, err := renderPanel(&fig.Panels[i], fig.Layout.Background, box.Dx(), box.Dy(), gochart.PNG)
		if err != nil {
			return err
		}
		if err := drawPNG(canvas, box, raw); err != nil {
			return fmt.Errorf("decode panel %q: %w", fig.Panels[i].Title, err)
		}
	}

	raw, err := renderLegend(fig, layout.Legend.Dx(), layout.Legend.Dy(), gochart.PNG)
	if err != nil {
		return err
	}
	if err := drawPNG(canvas, layout.Legend, raw); err != nil {
		return fmt.Errorf("decode legend: %w", err)
	}

	if err := png.Encode(w, canvas); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// drawPNG decodes raw and draws it into box on dst.
func drawPNG(dst draw.Image, box image.Rectangle, raw []byte) error {
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	draw.Draw(dst, box, img, img.Bounds().Min, draw.Over)
	return nil
}

// drawTitle centers title in box using go-chart's default font, so the title
// matches the panel text.
func drawTitle(dst draw.Image, box image.Rectangle, title string) error {
	f, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("title font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: titleFontSize, DPI: gochart.DefaultDPI})
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	m := face.Metrics()
	width := d.MeasureString(title)
	d.Dot = fixed.Point26_6{
		X: fixed.I(box.Min.X) + (fixed.I(box.Dx())-width)/2,
		Y: fixed.I(box.Min.Y) + (fixed.I(box.Dy())+m.Ascent-m.Descent)/2,
	}
	d.DrawString(title)
	return nil
}
