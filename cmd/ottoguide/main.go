// OttoGuide — a live cooking-session companion for the terminal.
//
// Usage:
//
//	ottoguide [-base-url URL] [-simple] [-progress] [-chime] [-headless] [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hammamikhairi/ottoguide/internal/chime"
	"github.com/hammamikhairi/ottoguide/internal/config"
	"github.com/hammamikhairi/ottoguide/internal/display"
	"github.com/hammamikhairi/ottoguide/internal/fetch"
	"github.com/hammamikhairi/ottoguide/internal/guide"
	"github.com/hammamikhairi/ottoguide/internal/logger"
)

func main() {
	os.Exit(run())
}

// run does the work of main and returns the exit code, so deferred cleanup
// happens before the process exits.
func run() int {
	cfg, err := config.Load(os.Args[1:], config.EnvLookup())
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	// Logs go to a file by default so the UI stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		f, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (falling back to stderr)\n", err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party libs log through the std package; keep them off the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(cfg.LogLevel, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := fetch.NewClient(cfg.BaseURL, log.Named("fetch"), fetch.WithHTTPTimeout(cfg.HTTPTimeout))

	opts := []guide.Option{
		guide.WithSimpleMode(cfg.Simple),
		guide.WithProgress(cfg.Progress),
	}

	if cfg.Chime {
		player, err := chime.NewPlayer(log.Named("chime"))
		if err != nil {
			log.Error("audio player init failed, chime disabled: %v", err)
		} else {
			opts = append(opts, guide.WithStepListener(chime.NewStepChime(player, log.Named("chime"))))
			log.Info("step chime enabled")
		}
	}

	log.Info("guide starting (server=%s, simple=%v, progress=%v)", cfg.BaseURL, cfg.Simple, cfg.Progress)

	if cfg.Headless {
		return runHeadless(ctx, api, log, opts)
	}
	return runUI(ctx, api, log, cfg, opts)
}

// runHeadless prints every display write as a line until interrupted.
func runHeadless(ctx context.Context, api *fetch.Client, log *logger.Logger, opts []guide.Option) int {
	rec := display.NewRecorder(func(f display.Field, v string) {
		fmt.Printf("%-13s %s\n", f, v)
	})

	g := guide.New(api, rec, log.Named("guide"), opts...)
	if err := g.Init(ctx); err != nil {
		log.Error("init: %v", err)
		return 1
	}
	<-ctx.Done()
	g.Shutdown()
	return 0
}

func runUI(ctx context.Context, api *fetch.Client, log *logger.Logger, cfg *config.Config, opts []guide.Option) int {
	ui := display.NewUI(display.WithSimpleLayout(cfg.Simple))
	g := guide.New(api, ui, log.Named("guide"), opts...)
	ui.SetActions(display.Actions{
		HidePanel: g.HidePanel,
		Refresh:   g.RefreshIngredients,
	})

	fmt.Println(display.RenderBanner(cfg.BaseURL))
	fmt.Println()

	go func() {
		ui.WaitReady()
		if err := g.Init(ctx); err != nil {
			log.Error("init: %v", err)
			ui.Quit()
			return
		}
		select {
		case <-ctx.Done():
			ui.Quit()
		case <-ui.QuitChan():
		}
	}()

	// Bubble Tea owns the terminal; blocks until quit.
	code := 0
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
		code = 1
	}
	g.Shutdown()
	return code
}
