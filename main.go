package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	conf "github.com/bartek5186/ean13gen/internal/config"
	"github.com/bartek5186/ean13gen/internal/history"
	logs "github.com/bartek5186/ean13gen/internal/logs"
	"github.com/bartek5186/ean13gen/internal/pipeline"
	"github.com/bartek5186/ean13gen/internal/render"
	"github.com/bartek5186/ean13gen/internal/runner"
	"github.com/bartek5186/ean13gen/internal/tabular"
	"github.com/bartek5186/ean13gen/internal/watcher"
)

// wersję możesz nadpisać przez: -ldflags "-X 'main.ver=1.0.1'"
var ver = "1.0.0"

var (
	// flagi globalne
	appDirFlag string
	verbose    bool

	// flagi `run`
	inputPath     string
	outputDir     string
	productColumn string
	codeColumn    string

	historyLimit int
	historyCode  string
)

// app trzyma wszystko, co komendy budują przy starcie.
type app struct {
	dir     string
	cfgPath string
	logPath string
	cfg     *conf.Config
	log     zerolog.Logger
	store   *history.Handle
	reader  *tabular.Reader
	runner  *runner.Runner
}

func newApp() (*app, error) {
	dir := appDirFlag
	if dir == "" {
		dir = mustAppDataDir("ean13gen")
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	a := &app{
		dir:     dir,
		cfgPath: filepath.Join(dir, "config.json"),
		logPath: filepath.Join(dir, "app.log"),
	}

	cfg, firstRun, err := conf.LoadOrCreate(a.cfgPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	a.log = logs.New(a.logPath, true, level)
	if firstRun {
		a.log.Info().Msgf("Utworzono domyślną konfigurację: %s", a.cfgPath)
	}

	if cfg.History.Enabled {
		dbh, err := history.OpenAt(dir, cfg.History)
		if err != nil {
			return nil, fmt.Errorf("DB open error: %w", err)
		}
		if err := dbh.Migrate(); err != nil {
			_ = dbh.Close()
			return nil, fmt.Errorf("DB migrate error: %w", err)
		}
		a.log.Debug().Str("db", dbh.Path).Msg("DB ready")
		a.store = dbh
	}

	if err := a.build(); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// build składa czytnik, renderer i pipeline z bieżącego configu.
func (a *app) build() error {
	reader, err := tabular.NewReader(a.log, a.cfg.Formats)
	if err != nil {
		return err
	}
	png, err := render.NewPNG(a.cfg.Barcode)
	if err != nil {
		return err
	}
	d := pipeline.New(a.log, pipeline.Deps{Reader: reader, Renderer: png}, a.cfg.Output)
	a.reader = reader
	a.runner = runner.New(a.log, d, a.store)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

func (a *app) newWatcher() *watcher.Watcher {
	return watcher.New(a.log, a.cfg, a.runner, a.reader.Supports)
}

var rootCmd = &cobra.Command{
	Use:   "ean13gen",
	Short: "EAN-13 codes and barcode images for a product sheet",
	Long: `ean13gen reads a product table (xlsx, xls, csv), keeps the valid EAN-13 codes
it already has, generates new ones in the 750 range for the rest and writes
the completed table, one PNG barcode per new code and a per-row log.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process one product table",
	RunE:  runOnce,
}

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "Print the column names of a table",
	Args:  cobra.ExactArgs(1),
	RunE:  showColumns,
}

var historyCmd = &cobra.Command{
	Use:   "history [runID]",
	Short: "List recent runs, the codes of one run, or where a code was used (--code)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  showHistory,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process every new table dropped into the watch directory",
	RunE:  runWatch,
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive console (start | stop | status | reload | paths | run | quit)",
	RunE:  runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&appDirFlag, "app-dir", "", "Directory for config.json, app.log and history (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Source table (required)")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	runCmd.Flags().StringVar(&productColumn, "product-column", "", "Column with product names (default from config)")
	runCmd.Flags().StringVar(&codeColumn, "code-column", "", "Column with existing codes, \"-\" for none (default from config)")
	_ = runCmd.MarkFlagRequired("input")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
	historyCmd.Flags().StringVar(&historyCode, "code", "", "Show every row that received this code")

	rootCmd.AddCommand(runCmd, columnsCmd, historyCmd, watchCmd, shellCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runOnce(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rc := a.cfg.RunConfig(inputPath, outputDir, productColumn, codeColumn)
	rep, err := a.runner.Run(ctx, rc)
	if err != nil {
		return fmt.Errorf("%s: %w", pipeline.KindOf(err), err)
	}
	fmt.Fprint(cmd.OutOrStdout(), rep.Summary())
	return nil
}

func showColumns(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	cols, err := a.reader.ReadHeader(args[0])
	if err != nil {
		return err
	}
	for _, c := range cols {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.store == nil {
		return fmt.Errorf("historia wyłączona w %s", a.cfgPath)
	}

	if historyCode != "" {
		return showCodeUses(cmd.OutOrStdout(), a.store, historyCode)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	if len(args) == 1 {
		run, err := a.store.Get(args[0])
		if err != nil {
			return err
		}
		codes, err := a.store.Codes(run.RunID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "ROW\tSTATUS\tCODE\tPRODUCT\tIMAGE\n")
		for _, c := range codes {
			detail := c.Image
			if c.Error != "" {
				detail = c.Error
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.RowNo, c.Status, c.Code, c.Product, detail)
		}
		return nil
	}

	runs, err := a.store.Recent(historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "RUN\tSTARTED\tSTATUS\tGEN\tKEPT\tERR\tSOURCE\n")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.RunID, r.StartedAt.Format("2006-01-02 15:04"), runStatus(r),
			r.Generated, r.Preserved, r.Errors, r.SourceFile)
	}
	return nil
}

// showCodeUses wypisuje wiersze z danym kodem. Generator nie pilnuje unikalności,
// więc kod wygenerowany więcej niż raz jest oznaczany jako duplikat.
func showCodeUses(out io.Writer, store *history.Handle, code string) error {
	uses, err := store.Seen(code)
	if err != nil {
		return err
	}
	if len(uses) == 0 {
		fmt.Fprintf(out, "Kod %s nie występuje w historii\n", code)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "RUN\tROW\tSTATUS\tPRODUCT\n")
	generated := 0
	for _, c := range uses {
		if c.Generated {
			generated++
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", c.RunID, c.RowNo, c.Status, c.Product)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if generated > 1 {
		fmt.Fprintf(out, "DUPLIKAT: kod %s wygenerowano %d razy\n", code, generated)
	}
	return nil
}

func runStatus(r history.Run) string {
	switch r.Status {
	case history.StatusDone:
		return "done"
	case history.StatusError:
		return "error:" + r.ErrorKind
	default:
		return "pending"
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := a.newWatcher()
	if err := w.Start(ctx); err != nil {
		return err
	}
	a.log.Info().Msgf("EAN13GEN watch %s - działa", ver)

	<-ctx.Done()
	w.Stop()
	return nil
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}
