// Package render rysuje obrazki kodów EAN-13 (PNG) i nazywa pliki.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Options – wymiary jak w drukowanych etykietach: w milimetrach przy zadanym DPI.
type Options struct {
	ModuleWidthMM  float64 `json:"module_width_mm"`
	ModuleHeightMM float64 `json:"module_height_mm"`
	QuietZoneMM    float64 `json:"quiet_zone_mm"`
	DPI            int     `json:"dpi"`
	WriteText      bool    `json:"write_text"`
	Foreground     string  `json:"foreground"`
	Background     string  `json:"background"`
}

func DefaultOptions() Options {
	return Options{
		ModuleWidthMM:  0.35,
		ModuleHeightMM: 15,
		QuietZoneMM:    6.5,
		DPI:            300,
		WriteText:      false,
		Foreground:     "black",
		Background:     "white",
	}
}

func (o Options) dpi() int {
	if o.DPI <= 0 {
		return 300
	}
	return o.DPI
}

// px przelicza milimetry na piksele (co najmniej min).
func (o Options) px(mm float64, min int) int {
	v := int(math.Round(mm * float64(o.dpi()) / 25.4))
	if v < min {
		return min
	}
	return v
}

// ParseColor przyjmuje nazwę SVG ("white", "black", "navy"...) albo #rgb / #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("nieznany kolor %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("nieznany kolor %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
