package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/docshell/docshell/internal/config"
	"github.com/docshell/docshell/internal/proc"
	"github.com/docshell/docshell/internal/server"
)

// runServe starts the configured server over the site directory and
// blocks until it exits.
func runServe(cfg *config.Config) error {
	if cfg.Server.Builtin {
		return runBuiltinServer(cfg)
	}
	return runExternalServer(cfg)
}

func runBuiltinServer(cfg *config.Config) error {
	srv := server.New(server.Config{
		Port:       cfg.Server.Port,
		SiteDir:    cfg.SiteDir,
		PagesDir:   cfg.PagesDir,
		LiveReload: cfg.Server.LiveReload,
		Open:       cfg.Server.Open,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// runExternalServer spawns the configured static server with the site
// directory as its argument and mirrors its exit status. Interrupts are
// forwarded to the child so it owns its own shutdown.
func runExternalServer(cfg *config.Config) error {
	handle := proc.Command(cfg.Server.Command, cfg.SiteDir)

	fmt.Printf("Starting %s %s\n", cfg.Server.Command, cfg.SiteDir)
	if err := handle.Start(); err != nil {
		return err
	}

	var interrupted atomic.Bool
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range sigc {
			interrupted.Store(true)
			_ = handle.Signal(sig)
		}
	}()

	err := handle.Wait()
	signal.Stop(sigc)
	close(sigc)

	var exitErr *proc.ExitError
	if errors.As(err, &exitErr) && exitErr.Code < 0 && interrupted.Load() {
		// Killed by the signal we forwarded: a normal Ctrl+C stop.
		return nil
	}
	return err
}
