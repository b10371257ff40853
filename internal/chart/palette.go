package chart

// Dense is the "dense" sequential colormap (cmocean), light to dark.
var Dense = []string{
	"#e6f0f0",
	"#bfdde5",
	"#9cc9e2",
	"#81b4e3",
	"#739ae4",
	"#757fdd",
	"#7864ca",
	"#774aaf",
	"#71328d",
	"#641f68",
	"#501442",
	"#360e24",
}

const (
	ColorBlack     = "#000000"
	ColorGreen     = "#008000"
	ColorLightGray = "#d3d3d3"
	ColorWhite     = "#ffffff"
)

// PaletteColor picks the i-th color, wrapping around.
func PaletteColor(palette []string, i int) string {
	if len(palette) == 0 {
		return ColorBlack
	}
	return palette[i%len(palette)]
}
