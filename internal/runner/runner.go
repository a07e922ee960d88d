// internal/runner/runner.go
package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/bartek5186/ean13gen/internal/history"
	"github.com/bartek5186/ean13gen/internal/pipeline"
)

// Runner to przebieg pipeline'u + zapis do historii. Historia jest opcjonalna (store == nil),
// a jej błędy tylko logujemy – nie psują przebiegu.
type Runner struct {
	log    zerolog.Logger
	driver *pipeline.Driver
	store  *history.Handle
}

func New(log zerolog.Logger, driver *pipeline.Driver, store *history.Handle) *Runner {
	return &Runner{log: log, driver: driver, store: store}
}

// Naming zwraca nazwy artefaktów z uzupełnionymi domyślnymi wartościami.
func (r *Runner) Naming() pipeline.Naming { return r.driver.Naming() }

func (r *Runner) Run(ctx context.Context, cfg pipeline.Config) (*pipeline.Report, error) {
	runID := r.begin(cfg.SourcePath)

	rep, err := r.driver.Run(ctx, cfg)
	if err != nil {
		r.log.Error().Err(err).Str("kind", pipeline.KindOf(err).String()).
			Str("source", cfg.SourcePath).Msg("przebieg przerwany")
		if runID != "" {
			if ferr := r.store.Fail(runID, err); ferr != nil {
				r.log.Warn().Err(ferr).Str("run_id", runID).Msg("historia: zapis błędu nieudany")
			}
		}
		return nil, err
	}

	if runID != "" {
		if ferr := r.store.Finish(runID, rep); ferr != nil {
			r.log.Warn().Err(ferr).Str("run_id", runID).Msg("historia: zapis wyniku nieudany")
		}
	}
	return rep, nil
}

func (r *Runner) begin(source string) string {
	if r.store == nil {
		return ""
	}
	sha, size, err := FileSHA256(source)
	if err != nil {
		// pipeline i tak zgłosi błąd odczytu, w historii zostanie pusty SHA
		r.log.Debug().Err(err).Str("source", source).Msg("nie mogę policzyć SHA źródła")
	}
	id, err := r.store.Begin(source, sha, size)
	if err != nil {
		r.log.Warn().Err(err).Msg("historia: nie mogę zapisać przebiegu")
		return ""
	}
	return id
}

// Processed mówi, czy plik o tej samej treści był już przetworzony z sukcesem.
func (r *Runner) Processed(path string) (bool, error) {
	if r.store == nil {
		return false, nil
	}
	sha, _, err := FileSHA256(path)
	if err != nil {
		return false, err
	}
	return r.store.Processed(sha)
}

func FileSHA256(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
