// internal/pipeline/driver.go
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartek5186/ean13gen/internal/assign"
	"github.com/bartek5186/ean13gen/internal/ean"
	"github.com/bartek5186/ean13gen/internal/render"
	"github.com/bartek5186/ean13gen/internal/tabular"
	"github.com/rs/zerolog"
)

type TableReader interface {
	Read(path string) (*tabular.Table, error)
}

type TableWriter interface {
	Write(t *tabular.Table, columns []string, path string) error
}

// Renderer zwraca obrazek kodu (PNG). Kod inny niż 13 cyfr to błąd.
type Renderer interface {
	Render(code string) ([]byte, error)
}

// XLSXWriter zapisuje tabelę przez tabular.WriteXLSX.
type XLSXWriter struct{}

func (XLSXWriter) Write(t *tabular.Table, columns []string, path string) error {
	return tabular.WriteXLSX(t, columns, path)
}

type Deps struct {
	Reader    TableReader
	Writer    TableWriter
	Renderer  Renderer
	Generator *ean.Generator // nil = globalne źródło losowości
}

type Driver struct {
	log    zerolog.Logger
	deps   Deps
	naming Naming
}

func New(log zerolog.Logger, deps Deps, naming Naming) *Driver {
	if deps.Writer == nil {
		deps.Writer = XLSXWriter{}
	}
	if deps.Generator == nil {
		deps.Generator = ean.NewGenerator(nil)
	}
	return &Driver{log: log, deps: deps, naming: naming.withDefaults()}
}

func (d *Driver) Naming() Naming { return d.naming }

// Run wykonuje cały przebieg: odczyt, przydział kodów, obrazki dla nowych kodów,
// zapis tabeli i logu wierszy. Błąd obrazka jednego wiersza nie przerywa pętli;
// każdy inny błąd przerywa przebieg bez zapisu tabeli (obrazki już zapisane zostają).
func (d *Driver) Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, newError(KindConfig, "konfiguracja", err)
	}
	log := d.log.With().Str("source", cfg.SourcePath).Logger()

	// 1) odczyt
	t, err := d.deps.Reader.Read(cfg.SourcePath)
	if err != nil {
		return nil, newError(KindSourceRead, "odczyt "+filepath.Base(cfg.SourcePath), err)
	}
	if err := requireColumns(t, cfg); err != nil {
		return nil, newError(KindSourceRead, "odczyt "+filepath.Base(cfg.SourcePath), err)
	}

	// 2) przydział kodów + odrzucenie wierszy bez produktu
	policy := assign.New(d.deps.Generator, cfg.CodeColumn)
	rows := policy.Apply(t, cfg.ProductColumn)
	log.Info().Int("rows_in", len(t.Rows)).Int("rows_kept", len(rows)).Msg("kody przydzielone")

	// 3) katalog wyjściowy (idempotentnie)
	outDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, newError(KindTopLevel, "katalog wyjściowy", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, newError(KindTopLevel, "katalog wyjściowy", err)
	}

	rep := &Report{
		Source:      cfg.SourcePath,
		ImageDir:    outDir,
		OutputTable: filepath.Join(outDir, d.naming.OutputTableName(cfg.SourcePath)),
		LogPath:     filepath.Join(outDir, d.naming.LogFileName),
	}
	out := &tabular.Table{Columns: outputColumns(t.Columns, d.naming.FinalColumn)}

	// 4) wiersz po wierszu
	for _, a := range rows {
		if err := ctx.Err(); err != nil {
			return nil, newError(KindTopLevel, "przerwano", err)
		}

		cells := make(map[string]string, len(a.Row.Cells)+1)
		for k, v := range a.Row.Cells {
			cells[k] = v
		}
		cells[d.naming.FinalColumn] = a.Code
		out.Rows = append(out.Rows, tabular.Row{Index: a.Row.Index, Cells: cells})

		o := Outcome{Row: a.Row.Number(), Product: a.Product, Code: a.Code, Generated: a.Generated}
		if !a.Generated {
			o.Status = StatusPreserved
			rep.add(o)
			continue
		}

		img, err := d.renderRow(outDir, a.Product, a.Code)
		if err != nil {
			o.Status = StatusError
			o.Err = newError(KindRowRender, "obrazek "+a.Code, err)
			log.Error().Err(err).Int("row", o.Row).Str("code", a.Code).Msg("błąd generowania obrazka")
		} else {
			o.Status = StatusGenerated
			o.Image = img
			log.Debug().Int("row", o.Row).Str("code", a.Code).Str("image", img).Msg("obrazek zapisany")
		}
		rep.add(o)
	}

	// 5) tabela wyjściowa
	if err := d.deps.Writer.Write(out, out.Columns, rep.OutputTable); err != nil {
		return nil, newError(KindTopLevel, "zapis tabeli", err)
	}

	// 6) log wierszy
	if err := os.WriteFile(rep.LogPath, []byte(strings.Join(rep.Lines(), "\n")), 0o644); err != nil {
		return nil, newError(KindTopLevel, "zapis logu", err)
	}

	log.Info().
		Int("generated", rep.Generated).
		Int("preserved", rep.Preserved).
		Int("errors", rep.Errors).
		Str("table", rep.OutputTable).
		Msg("przebieg zakończony")
	return rep, nil
}

func (d *Driver) renderRow(dir, product, code string) (string, error) {
	data, err := d.deps.Renderer.Render(code)
	if err != nil {
		return "", err
	}
	name := render.FileName(product, code)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

func requireColumns(t *tabular.Table, cfg Config) error {
	var missing []string
	if !t.HasColumn(cfg.ProductColumn) {
		missing = append(missing, cfg.ProductColumn)
	}
	if cfg.CodeColumn != "" && !t.HasColumn(cfg.CodeColumn) {
		missing = append(missing, cfg.CodeColumn)
	}
	if len(missing) > 0 {
		return fmt.Errorf("brak wymaganych kolumn: %s", strings.Join(missing, ", "))
	}
	return nil
}

// outputColumns: kolumny źródła bez kolumny końcowej, kolumna końcowa na końcu.
func outputColumns(src []string, final string) []string {
	cols := make([]string, 0, len(src)+1)
	for _, c := range src {
		if c != final {
			cols = append(cols, c)
		}
	}
	return append(cols, final)
}
