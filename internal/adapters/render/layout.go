package render

import (
	"image"

	"github.com/emiliopalmerini/stresschart/internal/chart"
)

const (
	titleHeight = 40
	// legendWidth is the column reserved right of the panels for the shared legend.
	legendWidth = 220
)

// figureLayout places the title band, the panels and the legend column on the figure canvas.
type figureLayout struct {
	Title  image.Rectangle
	Panels []image.Rectangle
	Legend image.Rectangle
}

func layoutFigure(fig *chart.Figure) figureLayout {
	w, h := fig.Layout.Width, fig.Layout.Height
	pw := (w - legendWidth) / len(fig.Panels)

	l := figureLayout{
		Title:  image.Rect(0, 0, w, titleHeight),
		Panels: make([]image.Rectangle, len(fig.Panels)),
		Legend: image.Rect(pw*len(fig.Panels), titleHeight, w, h),
	}
	for i := range fig.Panels {
		l.Panels[i] = image.Rect(i*pw, titleHeight, (i+1)*pw, h)
	}
	return l
}
