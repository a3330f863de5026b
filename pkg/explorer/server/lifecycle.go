package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start restores the explorer state and starts the HTTP server and the
// activity log cleanup. Ending ctx cancels the background work.
func (s *Server) Start(ctx context.Context) error {
	context.AfterFunc(ctx, s.cancelRuns)
	s.controller.Start(s.runCtx)
	s.logger.Info("Explorer ready", "url", s.controller.Settings().BaseURL)

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		s.startLogCleanup(s.runCtx)
	}()

	go func() {
		s.logger.Info("Starting HTTP server", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(err, "HTTP server error")
		}
	}()

	return nil
}

func (s *Server) WaitForShutdown(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		s.logger.Info("Shutting down...")
		return s.Shutdown(context.Background())
	case <-ctx.Done():
		s.logger.Info("Shutting down due to context cancellation...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting requests, cancels running connection tests, fetches and
// the event cleanup, and waits for them to return before the stores close.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.cancelRuns()
	s.handler.Wait()
	s.controller.Close()
	s.workers.Wait()

	s.logger.Info("Shutdown complete")
	return nil
}

func (s *Server) startLogCleanup(ctx context.Context) {
	if s.config.LogCleanupInterval <= 0 {
		return
	}
	ticker := s.clock.NewTicker(s.config.LogCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.cleanupEvents()
		}
	}
}

func (s *Server) cleanupEvents() {
	before := s.clock.Now().AddDate(0, 0, -s.config.LogRetentionDays)
	if err := s.eventStore.CleanupOldEvents(before); err != nil {
		s.logger.Error(err, "failed to cleanup old events")
		return
	}
	s.logger.V(1).Info("Cleaned up old events", "before", before)
}
