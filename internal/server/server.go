package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/store"
)

// #region server
// NewHTTPServer exposes the read-only operational surface: health, loop
// status, the active script, version lineage, provenance, and Prometheus
// metrics.
func NewHTTPServer(port string, st *store.Store, state *State, logger *logrus.Logger) *http.Server {
	h := &handler{store: st, state: state, log: logger}

	router := mux.NewRouter()
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/status", h.Status).Methods("GET")
	router.HandleFunc("/script", h.Script).Methods("GET")
	router.HandleFunc("/versions", h.Versions).Methods("GET")
	router.HandleFunc("/improvements", h.Improvements).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.Use(loggingMiddleware(logger))

	return &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Debug("HTTP request processed")
		})
	}
}

// #endregion server

// #region handlers
type handler struct {
	store *store.Store
	state *State
	log   *logrus.Logger
}

func (h *handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}

func (h *handler) Script(w http.ResponseWriter, _ *http.Request) {
	sc, err := h.store.GetActive()
	if err != nil {
		h.log.WithError(err).Warn("active script unavailable")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active script"})
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *handler) Versions(w http.ResponseWriter, r *http.Request) {
	scriptID := r.URL.Query().Get("script_id")
	if scriptID == "" {
		sc, err := h.store.GetActive()
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active script"})
			return
		}
		scriptID = sc.ID
	}

	versions, err := h.store.ListVersions(scriptID, 100)
	if err != nil {
		h.log.WithError(err).Error("list versions")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list versions failed"})
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *handler) Improvements(w http.ResponseWriter, _ *http.Request) {
	entries, err := h.store.ListImprovements(50)
	if err != nil {
		h.log.WithError(err).Error("list improvements")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list improvements failed"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// #endregion handlers
