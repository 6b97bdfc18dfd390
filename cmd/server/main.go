package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/tony-montemuro/webserver"
	"github.com/tony-montemuro/webserver/handler"
	"github.com/tony-montemuro/webserver/internal/config"
	"github.com/tony-montemuro/webserver/internal/logging"
	"github.com/tony-montemuro/webserver/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		if config.IsHelp(err) {
			return
		}
		fmt.Fprintf(os.Stderr, "server: %s\n", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	cfg, warnings, err := config.Load(args, getenv, stderr)
	if err != nil {
		return err
	}

	logger, err := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn().Msg(w)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	files := handler.NewContentStore(cfg.PublicPath, cfg.HotReload, logger)
	if cfg.HotReload {
		if err := files.Watch(ctx); err != nil {
			logger.Warn().Err(err).Msg("hot reload disabled")
		} else {
			logger.Info().Str("root", files.Root()).Msg("hot reload enabled")
		}
	}

	srv := newServer(cfg, files, logger)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", cfg.Addr, err)
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(ln)
	}()

	banner(stdout, cfg, ln.Addr().String())

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("signal received, shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errs; !errors.Is(err, webserver.ErrServerClosed) {
		return err
	}

	logger.Info().Msg("server shut down cleanly")
	return nil
}

// newServer wires the handler families into a router: the API under /api
// and static pages for every other GET. Any other method is not found.
func newServer(cfg config.Config, files handler.FileLoader, logger zerolog.Logger) *webserver.Server {
	r := router.New(handler.PageNotFound{Files: files}, logger)
	r.GET("api", handler.WebService{
		Files:    files,
		DataPath: cfg.DataPath,
		Auth:     handler.NewAuthenticator(cfg.APIJWTSecret),
		Logger:   logger,
	})
	r.GET(router.AnySegment, handler.StaticPage{Files: files})

	return &webserver.Server{
		Addr:            cfg.Addr,
		Router:          r,
		ReadTimeout:     cfg.ReadTimeout(),
		WriteTimeout:    cfg.WriteTimeout(),
		MaxRequestBytes: cfg.MaxRequestBytes,
		Logger:          logger,
	}
}

func banner(w io.Writer, cfg config.Config, addr string) {
	title := color.New(color.FgCyan, color.Bold)
	key := color.New(color.FgYellow)

	title.Fprintln(w, "=============================================")
	title.Fprintf(w, " Listening for connections on %s\n", addr)
	title.Fprintln(w, "=============================================")
	key.Fprint(w, " Public:  ")
	fmt.Fprintln(w, cfg.PublicPath)
	key.Fprint(w, " Data:    ")
	fmt.Fprintln(w, cfg.DataPath)
	key.Fprint(w, " Limit:   ")
	fmt.Fprintf(w, "%d bytes\n", cfg.MaxRequestBytes)
	key.Fprint(w, " Timeout: ")
	fmt.Fprintf(w, "read %s, write %s\n", cfg.ReadTimeout(), cfg.WriteTimeout())
	key.Fprint(w, " API:     ")
	if cfg.APIJWTSecret != "" {
		fmt.Fprintln(w, "bearer token required")
	} else {
		fmt.Fprintln(w, "open")
	}
	title.Fprintln(w, "=============================================")
}
