package assign

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartek5186/ean13gen/internal/ean"
	"github.com/bartek5186/ean13gen/internal/tabular"
)

func row(i int, cells map[string]string) tabular.Row {
	return tabular.Row{Index: i, Cells: cells}
}

func newPolicy(codeColumn string) *Policy {
	return New(ean.NewGenerator(rand.NewPCG(11, 22)), codeColumn)
}

func TestDecide(t *testing.T) {
	p := newPolicy("EAN")

	tests := []struct {
		name      string
		cells     map[string]string
		wantCode  string
		generated bool
	}{
		{"valid 13 digits with house prefix", map[string]string{"EAN": "7501234567895"}, "7501234567895", false},
		{"garbage", map[string]string{"EAN": "abc"}, "", true},
		{"short code with German prefix", map[string]string{"EAN": "4501234567"}, "4501234567", false},
		{"12 digits unknown prefix", map[string]string{"EAN": "200000000001"}, "200000000001", false},
		{"trimmed before keeping", map[string]string{"EAN": "  4006381333931 "}, "4006381333931", false},
		{"numeric cell as float", map[string]string{"EAN": "4501234567.0"}, "4501234567", false},
		{"short unknown prefix", map[string]string{"EAN": "123"}, "", true},
		{"missing cell", map[string]string{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, generated := p.Decide(row(0, tt.cells))
			assert.Equal(t, tt.generated, generated)
			if tt.generated {
				require.Len(t, code, 13)
				assert.Equal(t, ean.HousePrefix, code[:3])
				assert.True(t, ean.VerifyChecksum(code))
				return
			}
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestDecideWithoutCodeColumn(t *testing.T) {
	p := newPolicy("")
	code, generated := p.Decide(row(0, map[string]string{"EAN": "4006381333931"}))
	assert.True(t, generated)
	assert.NotEqual(t, "4006381333931", code)
	assert.True(t, ean.VerifyChecksum(code))
}

func TestApplyDropsRowsWithoutProduct(t *testing.T) {
	tbl := &tabular.Table{
		Columns: []string{"Nombre", "EAN"},
		Rows: []tabular.Row{
			row(0, map[string]string{"Nombre": "Café", "EAN": "4501234567"}),
			row(1, map[string]string{"EAN": "4006381333931"}),
			row(2, map[string]string{"Nombre": "Té", "EAN": "abc"}),
		},
	}

	got := newPolicy("EAN").Apply(tbl, "Nombre")
	require.Len(t, got, 2)

	assert.Equal(t, 0, got[0].Row.Index)
	assert.Equal(t, "Café", got[0].Product)
	assert.Equal(t, "4501234567", got[0].Code)
	assert.False(t, got[0].Generated)

	assert.Equal(t, 2, got[1].Row.Index)
	assert.True(t, got[1].Generated)
	assert.Len(t, got[1].Code, 13)
}

func TestApplyKeepsWhitespaceOnlyProduct(t *testing.T) {
	tbl := &tabular.Table{Rows: []tabular.Row{row(0, map[string]string{"Nombre": "  "})}}
	got := newPolicy("").Apply(tbl, "Nombre")
	assert.Len(t, got, 1, "only missing cells drop a row")
}

func TestStringify(t *testing.T) {
	tests := map[string]string{
		" 123 ":              "123",
		"4501234567.0":       "4501234567",
		"7.501234567895E+12": "7501234567895",
		"12.5":               "12.5",
		"abc":                "abc",
		"1e40":               "1e40",
		"-5.0":               "-5.0",
		"":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Stringify(in), in)
	}
}
