package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meghashyamc/notesapp/app"
	"github.com/meghashyamc/notesapp/config"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/metrics"
	"github.com/meghashyamc/notesapp/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// Run serves the HTTP API until ctx is cancelled or the process is
// interrupted, then shuts the server down and closes the databases.
func Run(ctx context.Context, cfg *config.Config, logger logger.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	validator, err := validation.New(logger)
	if err != nil {
		logger.Error("error creating validator", "err", err.Error())
		return err
	}

	s := &server{logger: logger}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.GetPort()),
		Handler:           newRouter(application, metrics.New(), validator).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.serve(ctx)
}

func (s *server) serve(ctx context.Context) error {
	errC := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		if err != nil {
			s.logger.Error("http server failed", "err", err.Error())
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err.Error())
		return err
	}
	s.logger.Info("shut down http server successfully")
	return nil
}
