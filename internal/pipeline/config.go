// internal/pipeline/config.go
package pipeline

import (
	"errors"
	"path/filepath"
	"strings"
)

// Config to parametry jednego przebiegu. Przekazywany raz, niezmienny.
type Config struct {
	SourcePath    string
	OutputDir     string
	ProductColumn string
	CodeColumn    string // pusty = brak kolumny z istniejącymi kodami
}

func (c Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.SourcePath) == "" {
		missing = append(missing, "plik źródłowy")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		missing = append(missing, "katalog wyjściowy")
	}
	if strings.TrimSpace(c.ProductColumn) == "" {
		missing = append(missing, "kolumna produktów")
	}
	if len(missing) > 0 {
		return errors.New("brak parametrów: " + strings.Join(missing, ", "))
	}
	return nil
}

// Naming – stałe nazwy artefaktów przebiegu.
type Naming struct {
	OutputTag   string `json:"output_tag"`    // prefiks nazwy tabeli wyjściowej
	LogFileName string `json:"log_file_name"` // log wierszy w katalogu wyjściowym
	FinalColumn string `json:"final_column"`  // kolumna z kodem końcowym
}

func DefaultNaming() Naming {
	return Naming{
		OutputTag:   "CODIGOS_",
		LogFileName: "log_generacion.txt",
		FinalColumn: "EAN_FINAL",
	}
}

func (n Naming) withDefaults() Naming {
	d := DefaultNaming()
	if n.OutputTag == "" {
		n.OutputTag = d.OutputTag
	}
	if n.LogFileName == "" {
		n.LogFileName = d.LogFileName
	}
	if n.FinalColumn == "" {
		n.FinalColumn = d.FinalColumn
	}
	return n
}

// OutputTableName: <tag><nazwa źródła>; zapisujemy tylko xlsx, więc .xls/.csv dostają .xlsx.
func (n Naming) OutputTableName(source string) string {
	base := filepath.Base(source)
	if ext := filepath.Ext(base); !strings.EqualFold(ext, ".xlsx") {
		base = strings.TrimSuffix(base, ext) + ".xlsx"
	}
	return n.OutputTag + base
}
