package api

import (
	"net/http"

	"github.com/jonesrussell/a11yscan/internal/config"
	"github.com/jonesrussell/a11yscan/internal/logger"
)

// NewServer builds the HTTP server around the configured router. The
// handler is returned too so the caller can drain its analysis pool on
// shutdown.
func NewServer(cfg *config.Config, log logger.Interface) (*http.Server, *AnalysesHandler) {
	handler := NewAnalysesHandler(cfg.Analysis, log)
	router := SetupRouter(log, handler)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return server, handler
}
