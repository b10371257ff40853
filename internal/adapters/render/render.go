// Package render draws chart figures with go-chart.
package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/emiliopalmerini/stresschart/internal/domain"
	"github.com/emiliopalmerini/stresschart/internal/ports"
)

// Format is an output format name.
type Format string

const (
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatHTML, "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%q: %w", s, domain.ErrUnsupportedFormat)
}

// ResolveFormat picks the explicit format if set, otherwise the output path's
// extension, otherwise PNG.
func ResolveFormat(explicit, path string) (Format, error) {
	if explicit != "" {
		return ParseFormat(explicit)
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatPNG, nil
	}
	return ParseFormat(ext)
}

// New returns the renderer for f.
func New(f Format) (ports.Renderer, error) {
	switch f {
	case FormatPNG:
		return NewPNGRenderer(), nil
	case FormatHTML:
		return NewHTMLRenderer(), nil
	}
	return nil, fmt.Errorf("%q: %w", f, domain.ErrUnsupportedFormat)
}
