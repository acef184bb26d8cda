// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stubserver is a local stand-in for the conversion service. It
// speaks the same contract as the real service (POST /convert, GET
// /download/{path}) but only produces placeholder artifacts: plain text,
// HTML and a one-page PDF. Anything else is answered with a declared
// failure.
package stubserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pdiddy/file-converter/pkg/types"
)

const shutdownTimeout = 5 * time.Second

// Server serves the conversion contract from a storage directory.
type Server struct {
	cfg    types.StubServerConfig
	logger *slog.Logger
	echo   *echo.Echo
	newID  func() string

	mu    sync.RWMutex
	names map[string]string // stored artifact -> download name
}

// New creates the storage directory and registers the routes. A nil logger
// discards request logs.
func New(cfg types.StubServerConfig, logger *slog.Logger) (*Server, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", cfg.StorageDir, err)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		echo:   echo.New(),
		newID:  func() string { return uuid.New().String() },
		names:  make(map[string]string),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(strconv.FormatInt(cfg.MaxUploadBytes, 10)))

	e.GET("/health", s.handleHealth)
	e.POST("/convert", s.handleConvert)
	e.GET("/download/:path", s.handleDownload)
	return s, nil
}

// Handler exposes the server for httptest and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("stub conversion service listening", "addr", s.cfg.Addr, "storage", s.cfg.StorageDir)
		errCh <- s.echo.Start(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "file-converter stub",
	})
}

func (s *Server) remember(stored, downloadName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[stored] = downloadName
}

func (s *Server) downloadName(stored string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.names[stored]; ok {
		return n
	}
	return stored
}
