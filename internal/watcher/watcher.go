// internal/watcher/watcher.go
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	conf "github.com/bartek5186/ean13gen/internal/config"
	"github.com/bartek5186/ean13gen/internal/pipeline"
	"github.com/bartek5186/ean13gen/internal/runner"
)

// Watcher co PollSec przegląda katalog i przepuszcza nowe arkusze przez pipeline.
// Pliki przetwarzane są po kolei, w jednej gorutynie.
type Watcher struct {
	log zerolog.Logger // logowanie

	mu       sync.Mutex             // ochrona sekcji krytycznych
	cfg      *conf.Config           // aktualna konfiguracja
	run      *runner.Runner         // zbudowany z cfg
	supports func(path string) bool // czy czytnik zna rozszerzenie
	running  bool
	parent   context.Context // kontekst z ostatniego Start, używany przy restarcie
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	scans    uint64 // licznik przebiegów skanowania
}

func New(log zerolog.Logger, cfg *conf.Config, r *runner.Runner, supports func(string) bool) *Watcher {
	return &Watcher{log: log, cfg: cfg, run: r, supports: supports}
}

func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	dir := expandHome(w.cfg.Watch.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.mu.Unlock()
		return err
	}
	w.parent = ctx
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.scans = 0
	w.wg.Add(1)
	w.mu.Unlock()

	w.log.Info().Str("dir", dir).Msg("Watcher: start")
	go w.loop(ctx)
	return nil
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	w.log.Info().Msg("Watcher: stop")
}

// UpdateConfig podmienia config oraz runner i filtr rozszerzeń zbudowane z nowego configu.
// Działający watcher jest restartowany w kontekście z poprzedniego Start.
func (w *Watcher) UpdateConfig(cfg *conf.Config, r *runner.Runner, supports func(string) bool) {
	w.mu.Lock()
	w.cfg = cfg
	w.run = r
	w.supports = supports
	isRunning := w.running
	parent := w.parent
	w.mu.Unlock()

	w.log.Info().Msg("Watcher: config zaktualizowany")

	if isRunning {
		// restart, żeby wziąć nowy katalog
		w.Stop()
		if err := w.Start(parent); err != nil {
			w.log.Error().Err(err).Msg("Watcher: restart nieudany")
		}
	}
}

func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) Scans() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scans
}

func (w *Watcher) config() *conf.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

func (w *Watcher) interval() time.Duration {
	cfg := w.config()
	if cfg != nil && cfg.Watch.PollSec > 0 {
		return time.Duration(cfg.Watch.PollSec) * time.Second
	}
	return 10 * time.Second
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	// pierwszy przebieg od razu
	w.ScanOnce(ctx)

	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Watcher: koniec pętli")
			return
		case <-ticker.C:
			w.ScanOnce(ctx)
			ticker.Reset(w.interval())
		}
	}
}

// ScanOnce przetwarza nowe pliki z katalogu i zwraca, ile przebiegów się udało.
func (w *Watcher) ScanOnce(ctx context.Context) int {
	w.mu.Lock()
	cfg, run, supports := w.cfg, w.run, w.supports
	w.scans++
	w.mu.Unlock()

	// nazwy wyjść po uzupełnieniu domyślnych, tak jak w pipeline
	naming := run.Naming()

	dir := expandHome(cfg.Watch.Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.Error().Err(err).Str("dir", dir).Msg("nie mogę odczytać katalogu")
		return 0
	}

	ok := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return ok
		}
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, naming.OutputTag) ||
			name == naming.LogFileName || !supports(name) {
			continue
		}
		full := filepath.Join(dir, name)

		// dedup po SHA treści
		done, err := run.Processed(full)
		if err != nil {
			w.log.Error().Err(err).Str("file", name).Msg("nie mogę sprawdzić historii pliku")
			continue
		}
		if done {
			w.log.Debug().Str("file", name).Msg("plik już był (DONE), pomijam")
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		rc := cfg.RunConfig(full, filepath.Join(expandHome(cfg.Watch.OutputDir), stem), "", "")
		rep, err := run.Run(ctx, rc)
		if err != nil {
			w.log.Error().Err(err).Str("file", name).Str("kind", pipeline.KindOf(err).String()).
				Msg("błąd przetwarzania pliku")
			continue
		}
		ok++
		w.log.Info().Str("file", name).
			Int("generated", rep.Generated).
			Int("preserved", rep.Preserved).
			Int("errors", rep.Errors).
			Msg("przetworzono OK")
	}
	return ok
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
