package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PNG rysuje kod EAN-13 jako obrazek PNG.
type PNG struct {
	opts Options
	fg   color.RGBA
	bg   color.RGBA
}

// NewPNG sprawdza kolory od razu, żeby błąd w configu nie wychodził dopiero przy wierszu.
func NewPNG(opts Options) (*PNG, error) {
	fg, err := ParseColor(opts.Foreground)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	bg, err := ParseColor(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	return &PNG{opts: opts, fg: fg, bg: bg}, nil
}

// Render zwraca bajty PNG. Kod musi mieć dokładnie 13 cyfr (z poprawną cyfrą kontrolną).
func (p *PNG) Render(code string) ([]byte, error) {
	if len(code) != 13 || !digitsOnly(code) {
		return nil, fmt.Errorf("kod %q nie jest poprawnym EAN-13 (wymagane 13 cyfr)", code)
	}

	bc, err := ean.Encode(code)
	if err != nil {
		return nil, fmt.Errorf("kod %s: %w", code, err)
	}

	modules := bc.Bounds().Dx()
	modulePx := p.opts.px(p.opts.ModuleWidthMM, 1)
	barH := p.opts.px(p.opts.ModuleHeightMM, 1)
	quiet := p.opts.px(p.opts.QuietZoneMM, 0)

	scaled, err := barcode.Scale(bc, modules*modulePx, barH)
	if err != nil {
		return nil, fmt.Errorf("skalowanie %s: %w", code, err)
	}

	textH := 0
	if p.opts.WriteText {
		textH = basicfont.Face7x13.Metrics().Height.Ceil() + quiet/4 + 2
	}

	w := modules*modulePx + 2*quiet
	h := barH + 2*(quiet/2) + textH
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: p.bg}, image.Point{}, draw.Src)

	// barcode.Scale daje czarno-białe piksele, przemalowujemy na nasze kolory
	top := quiet / 2
	sb := scaled.Bounds()
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			if isDark(scaled.At(x, y)) {
				img.SetRGBA(quiet+x-sb.Min.X, top+y-sb.Min.Y, p.fg)
			}
		}
	}

	if p.opts.WriteText {
		d := &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{C: p.fg},
			Face: basicfont.Face7x13,
		}
		tw := d.MeasureString(code).Ceil()
		d.Dot = fixed.P((w-tw)/2, top+barH+basicfont.Face7x13.Metrics().Ascent.Ceil()+2)
		d.DrawString(code)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
