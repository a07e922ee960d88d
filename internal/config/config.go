// internal/config/config.go
package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bartek5186/ean13gen/internal/history"
	"github.com/bartek5186/ean13gen/internal/pipeline"
	"github.com/bartek5186/ean13gen/internal/render"
	"github.com/bartek5186/ean13gen/internal/tabular"
)

// Domyślne parametry przebiegu (flagi CLI je nadpisują)
type RunDefaults struct {
	OutputDir     string `json:"output_dir"`
	ProductColumn string `json:"product_column"`
	CodeColumn    string `json:"code_column"` // pusty = brak kolumny z kodami
}

// Tryb obserwowania katalogu
type WatchConfig struct {
	Dir       string `json:"dir"`        // skąd brać arkusze
	OutputDir string `json:"output_dir"` // wyniki w <output_dir>/<nazwa pliku>/
	PollSec   int    `json:"poll_sec"`
	AutoStart bool   `json:"auto_start"` // start od razu w shellu
}

// Główny config aplikacji
type Config struct {
	LogLevel string                     `json:"log_level"`
	Defaults RunDefaults                `json:"defaults"`
	Output   pipeline.Naming            `json:"output"`
	Barcode  render.Options             `json:"barcode"`
	History  history.Config             `json:"history"`
	Watch    WatchConfig                `json:"watch"`
	Formats  map[string]json.RawMessage `json:"formats"` // nazwa formatu -> surowy JSON opcji
}

func Default() *Config {
	csvOpts, _ := json.Marshal(tabular.CSVConfig{Charset: "utf-8"})
	xlsOpts, _ := json.Marshal(tabular.XLSConfig{Charset: "utf-8"})

	return &Config{
		LogLevel: "info",
		Defaults: RunDefaults{
			OutputDir: "./codigos",
		},
		Output:  pipeline.DefaultNaming(),
		Barcode: render.DefaultOptions(),
		History: history.Config{Enabled: true, Driver: "sqlite"},
		Watch: WatchConfig{
			Dir:       "./xlsx_in",
			OutputDir: "./codigos",
			PollSec:   10,
		},
		Formats: map[string]json.RawMessage{
			"csv": csvOpts,
			"xls": xlsOpts,
		},
	}
}

func LoadOrCreate(path string) (*Config, bool, error) {
	// upewnij się, że katalog istnieje
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return nil, false, fmt.Errorf("błąd zapisu domyślnego configa: %w", err)
			}
			return cfg, true, nil
		}
		return nil, false, fmt.Errorf("błąd otwierania configa: %w", err)
	}
	defer f.Close()

	// brakujące pola zostają z Default()
	cfg := Default()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, false, fmt.Errorf("błąd parsowania configa: %w", err)
	}
	if cfg.Formats == nil {
		cfg.Formats = map[string]json.RawMessage{}
	}
	return cfg, false, nil
}

func Save(path string, cfg *Config) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// RunConfig skleja parametry przebiegu: flagi mają pierwszeństwo przed configiem.
func (c *Config) RunConfig(source, outputDir, productCol, codeCol string) pipeline.Config {
	rc := pipeline.Config{
		SourcePath:    source,
		OutputDir:     c.Defaults.OutputDir,
		ProductColumn: c.Defaults.ProductColumn,
		CodeColumn:    c.Defaults.CodeColumn,
	}
	if outputDir != "" {
		rc.OutputDir = outputDir
	}
	if productCol != "" {
		rc.ProductColumn = productCol
	}
	if codeCol != "" {
		rc.CodeColumn = codeCol
	}
	if rc.CodeColumn == NoColumn {
		rc.CodeColumn = ""
	}
	return rc
}

// NoColumn wyłącza kolumnę kodów ustawioną w configu.
const NoColumn = "-"
