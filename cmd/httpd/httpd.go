// Package httpd implements the command that serves the analysis HTTP API.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/a11yscan/cmd/common"
	"github.com/jonesrussell/a11yscan/internal/api"
	"github.com/jonesrussell/a11yscan/internal/logger"
	"github.com/jonesrussell/a11yscan/internal/worker"
)

const (
	errorChannelBufferSize  = 1
	signalChannelBufferSize = 1
	shutdownTimeout         = 30 * time.Second
)

// Command creates the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Start the analysis HTTP server",
		Long:  `Start the HTTP server exposing the analysis API with SSE progress streaming.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}
}

// Start builds the server from configuration and runs it until interrupted.
func Start() error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to get dependencies: %w", err)
	}

	server, handler := api.NewServer(deps.Config, deps.Logger)

	deps.Logger.Info("Starting HTTP server", "addr", server.Addr)
	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return runServerUntilInterrupt(deps.Logger, server, handler.Pool(), errChan)
}

// runServerUntilInterrupt runs the server until interrupted by signal or
// error.
func runServerUntilInterrupt(
	log logger.Interface,
	server *http.Server,
	pool *worker.Pool,
	errChan chan error,
) error {
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		return shutdownServer(log, server, pool, sig)
	}
}

// shutdownServer performs graceful shutdown of the pool and the server.
func shutdownServer(log logger.Interface, server *http.Server, pool *worker.Pool, sig os.Signal) error {
	log.Info("Shutdown signal received", "signal", sig.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Drain running analyses first so in-flight SSE streams can finish.
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop worker pool", "error", err)
	}

	log.Info("Stopping HTTP server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", "error", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	log.Info("Server stopped successfully")
	return nil
}
