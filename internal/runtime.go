package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type runtimeConfig struct {
	handler         http.Handler
	baseCtx         context.Context
	logger          *slog.Logger
	address         string
	startupHooks    []shutdownFunc
	shutdownHooks   []shutdownFunc
	shutdownTimeout time.Duration
}

// runServer listens on cfg.address and blocks until the context is done,
// then stops the server and runs shutdown hooks.
func runServer(cfg runtimeConfig) error {
	if cfg.address == "" {
		cfg.address = ":8080"
	}
	if cfg.shutdownTimeout <= 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	log := cfg.logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	baseCtx := cfg.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			return errors.Join(ErrStartupHook, err)
		}
	}

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(baseCtx), cfg.shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			log.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Info("shutdown completed")
	return nil
}
