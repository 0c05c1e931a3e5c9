package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"hubportal/internal/assist"
	"hubportal/internal/compiler"
	"hubportal/internal/config"
	"hubportal/internal/firmware"
	"hubportal/internal/logging"
	"hubportal/internal/mailer"
	"hubportal/internal/programs"
	"hubportal/internal/relay"
	"hubportal/internal/usbmon"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Server wires the portal services behind one HTTP listener.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	compiler *compiler.Compiler
	flasher  *firmware.Flasher
	store    *programs.Store
	assist   assist.Service
	mailer   mailer.Service
	monitor  *usbmon.Monitor
	relay    *relay.Hub

	listener net.Listener
	server   *http.Server
}

// New constructs the server and all services it fronts.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	flasher, err := firmware.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init flasher: %w", err)
	}
	store, err := programs.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open programs store: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		compiler: compiler.New(cfg, logger),
		flasher:  flasher,
		store:    store,
		assist:   assist.NewService(cfg),
		mailer:   mailer.NewService(cfg),
		monitor:  usbmon.NewMonitor(cfg, logger),
		relay:    relay.NewHub(logger),
	}

	s.server = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		// Flash operations hold the request for up to the flash timeout.
		WriteTimeout: time.Duration(cfg.Tools.FlashTimeoutSeconds+30) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied (used in
// tests).
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)

	mux.HandleFunc("/api/compiler/check", s.handleSyntaxCheck)
	mux.HandleFunc("/api/compiler/compile", s.handleCompile)
	mux.HandleFunc("/api/compiler/compile/download", s.handleCompileDownload)

	mux.HandleFunc("/api/firmware/install", s.handleFirmwareInstall)
	mux.HandleFunc("/api/firmware/install/stable", s.handleFirmwareInstallStable)
	mux.HandleFunc("/api/firmware/restore-info", s.handleRestoreInfo)
	mux.HandleFunc("/api/firmware/restore/upload", s.handleRestoreUpload)
	mux.HandleFunc("/api/firmware/restore/bundled", s.handleRestoreBundled)
	mux.HandleFunc("/api/firmware/restore/remote", s.handleRestoreRemote)

	mux.HandleFunc("/api/programs", s.handlePrograms)
	mux.HandleFunc("/api/programs/", s.handleProgramItem)

	mux.HandleFunc("/api/examples", s.handleExamples)
	mux.HandleFunc("/api/examples/", s.handleExampleItem)

	mux.HandleFunc("/api/assist/status", s.handleAssistStatus)
	mux.HandleFunc("/api/assist/chat", s.handleAssistChat)
	mux.HandleFunc("/api/email/share", s.handleEmailShare)
	mux.HandleFunc("/api/device/status", s.handleDeviceStatus)

	mux.Handle("/ws/terminal", s.relay)

	return s.withMiddleware(mux)
}

// Start binds the listener and begins serving. The monitor and relay ride
// the same context: cancelling it shuts everything down.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	if err := s.monitor.Start(ctx); err != nil {
		return fmt.Errorf("start usb monitor: %w", err)
	}
	go s.relay.Run(ctx)

	go func() {
		if serveErr := s.server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(serveErr))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("version", Version))
	return nil
}

// Addr returns the bound listener address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, draining in-flight requests briefly.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)

	s.monitor.Stop()
	s.relay.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close programs store", logging.Error(err))
	}
}

// clientKey identifies a caller for the assist cooldown.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func trimPathID(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
