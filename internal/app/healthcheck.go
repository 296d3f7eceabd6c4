package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/flightdrop/internal/ctxlog"
)

type capabilityStatus struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type moduleStatus struct {
	Name         string             `json:"name"`
	Capabilities []capabilityStatus `json:"capabilities"`
}

// Handler returns the HTTP handler served by the healthcheck server.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/modules", a.modulesHandler)
	return mux
}

// healthHandler reports OK once the application is running.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	if a.State() != StateRunning {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, a.State())
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// modulesHandler lists the host's modules and their capabilities.
func (a *App) modulesHandler(w http.ResponseWriter, r *http.Request) {
	desc, err := a.Descriptor()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	mods, err := desc.Modules()
	if err != nil {
		a.logger.Error("Failed to build modules for status endpoint.", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]moduleStatus, 0, len(mods))
	for _, m := range mods {
		status := moduleStatus{Name: m.Name(), Capabilities: []capabilityStatus{}}
		for _, c := range m.Capabilities() {
			status.Capabilities = append(status.Capabilities, capabilityStatus{Name: c.Name, Kind: c.Kind.String()})
		}
		out = append(out, status)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		a.logger.Error("Failed to write modules response.", "error", err)
	}
}

// startHealthcheckServer runs the healthcheck HTTP server in the background.
func (a *App) startHealthcheckServer(ctx context.Context, port int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring health check server.")

	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := a.httpServer
	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeHealthcheckServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if a.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	a.httpServer = nil

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
