package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	conf "github.com/bartek5186/ean13gen/internal/config"
	"github.com/bartek5186/ean13gen/internal/pipeline"
)

const shellHelp = "start | stop | reload | status | paths | run <plik> | quit"

func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return shellLoop(ctx, cancel, a, cmd.InOrStdin(), cmd.OutOrStdout())
}

func shellLoop(ctx context.Context, cancel context.CancelFunc, a *app, in io.Reader, out io.Writer) error {
	w := a.newWatcher()

	// AutoStart obserwowania katalogu
	if a.cfg.Watch.AutoStart {
		if err := w.Start(ctx); err != nil {
			a.log.Error().Msgf("AutoStart nieudany: %v", err)
		} else {
			a.log.Info().Msgf("EAN13GEN watch %s - działa", ver)
		}
	}

	// Prosta pętla poleceń w terminalu
	fmt.Fprintln(out, "EAN13GEN CLI", ver)
	fmt.Fprintln(out, "Komendy:", shellHelp)
	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(out, "> ")
		line, rerr := reader.ReadString('\n')
		fields := strings.Fields(line)
		cmd := ""
		if len(fields) > 0 {
			cmd = strings.ToLower(fields[0])
		}

		switch cmd {
		case "start":
			if err := w.Start(ctx); err != nil {
				a.log.Error().Msgf("Start error: %v", err)
				fmt.Fprintln(out, "Błąd startu:", err)
				break
			}
			fmt.Fprintln(out, "Start OK, katalog:", a.cfg.Watch.Dir)
		case "stop":
			w.Stop()
			fmt.Fprintln(out, "Zatrzymano")
		case "reload":
			newCfg, _, err := conf.LoadOrCreate(a.cfgPath)
			if err != nil {
				a.log.Error().Msgf("Błąd reloadu: %v", err)
				fmt.Fprintln(out, "Błąd reloadu:", err)
				break
			}
			a.cfg = newCfg
			if err := a.build(); err != nil {
				a.log.Error().Msgf("Błąd reloadu: %v", err)
				fmt.Fprintln(out, "Błąd reloadu:", err)
				break
			}
			w.UpdateConfig(a.cfg, a.runner, a.reader.Supports)
			a.log.Info().Msg("Konfiguracja przeładowana")
			fmt.Fprintln(out, "Konfiguracja przeładowana")
		case "status":
			if w.IsRunning() {
				fmt.Fprintf(out, "Status: DZIAŁA (przebiegów skanowania: %d)\n", w.Scans())
			} else {
				fmt.Fprintln(out, "Status: ZATRZYMANY")
			}
		case "paths":
			fmt.Fprintln(out, "Logi:", a.logPath)
			fmt.Fprintln(out, "Config:", a.cfgPath)
			if a.store != nil {
				fmt.Fprintln(out, "Historia:", a.store.Path)
			}
			fmt.Fprintln(out, "Obserwowany katalog:", a.cfg.Watch.Dir)
		case "run":
			if len(fields) < 2 {
				fmt.Fprintln(out, "Użycie: run <plik>")
				break
			}
			rc := a.cfg.RunConfig(strings.Join(fields[1:], " "), "", "", "")
			rep, err := a.runner.Run(ctx, rc)
			if err != nil {
				fmt.Fprintf(out, "Błąd (%s): %v\n", pipeline.KindOf(err), err)
				break
			}
			fmt.Fprint(out, rep.Summary())
		case "quit", "exit":
			cancel()
			w.Stop()
			time.Sleep(50 * time.Millisecond)
			return nil
		case "":
			// enter – ignoruj
		default:
			fmt.Fprintln(out, "Nieznana komenda. Użyj:", shellHelp)
		}

		if rerr != nil {
			// koniec wejścia (np. potok) – jak quit
			w.Stop()
			return nil
		}
	}
}
