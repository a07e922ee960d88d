package render

import (
	"bytes"
	"image/color"
	"image/png"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDefaultOptions(t *testing.T) {
	r, err := NewPNG(DefaultOptions())
	require.NoError(t, err)

	data, err := r.Render("4006381333931")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// 95 modułów * 4 px + 2 * 77 px strefy ciszy; 177 px słupków + 2 * 38 px
	assert.Equal(t, 95*4+2*77, img.Bounds().Dx())
	assert.Equal(t, 177+2*38, img.Bounds().Dy())

	white := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, white)

	// pierwszy moduł znaku startu jest ciemny
	bar := color.RGBAModel.Convert(img.At(77, 38)).(color.RGBA)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, bar)
}

func TestRenderCustomColorsAndText(t *testing.T) {
	opts := DefaultOptions()
	opts.Foreground = "#003366"
	opts.Background = "ivory"
	opts.WriteText = true
	r, err := NewPNG(opts)
	require.NoError(t, err)

	data, err := r.Render("5901234123457")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Greater(t, img.Bounds().Dy(), 177+2*38, "text adds a caption line")
	bg := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	assert.Equal(t, color.RGBA{255, 255, 240, 255}, bg)
	fg := color.RGBAModel.Convert(img.At(77, 38)).(color.RGBA)
	assert.Equal(t, color.RGBA{0x00, 0x33, 0x66, 0xff}, fg)
}

func TestRenderRejectsNon13Digits(t *testing.T) {
	r, err := NewPNG(DefaultOptions())
	require.NoError(t, err)

	for _, code := range []string{"", "4501234567", "40063813339310", "40063813339a1"} {
		_, err := r.Render(code)
		assert.Error(t, err, code)
	}
}

func TestRenderRejectsBadCheckDigit(t *testing.T) {
	r, err := NewPNG(DefaultOptions())
	require.NoError(t, err)
	_, err = r.Render("4006381333932")
	assert.Error(t, err)
}

func TestNewPNGBadColor(t *testing.T) {
	opts := DefaultOptions()
	opts.Foreground = "not-a-colour"
	_, err := NewPNG(opts)
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c)

	c, err = ParseColor(" Black ")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("#gggggg")
	assert.Error(t, err)
}

var safeName = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café  Latte!!", "Cafe_Latte"},
		{"  Zażółć gęślą jaźń  ", "Zazolc_gesla_jazn"},
		{"a/b\\c:d*e?f", "abcdef"},
		{"tab\tand\nnewline", "tab_and_newline"},
		{"keep-dash_and_underscore", "keep-dash_and_underscore"},
		{"日本語", ""},
		{"Producto con un nombre realmente muy largo", "Producto_con_un_nombre_realmen"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Sanitize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, safeName, got)
			assert.LessOrEqual(t, len(got), 30)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "ean_Cafe_Latte_7501234567895.png", FileName("Café  Latte!!", "7501234567895"))
	assert.Equal(t, "ean__7501234567895.png", FileName("!!!", "7501234567895"))
}
