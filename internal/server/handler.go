package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/psantana5/cpxanno/internal/anno"
	"github.com/psantana5/cpxanno/internal/logging"
	"github.com/psantana5/cpxanno/internal/modelfile"
	"github.com/psantana5/cpxanno/internal/report"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// Handler renders model documents into annotation files over HTTP
type Handler struct {
	printer  *anno.Printer
	recorder *report.Recorder
	log      *logging.Logger
	maxBody  int64
}

// NewHandler creates a new handler
func NewHandler(p *anno.Printer, rec *report.Recorder, log *logging.Logger, maxBody int64) *Handler {
	return &Handler{
		printer:  p,
		recorder: rec,
		log:      log,
		maxBody:  maxBody,
	}
}

// RegisterRoutes registers all API routes. The rendering API is rate limited
// per client when limiter is non-nil; health and metrics never are.
func (h *Handler) RegisterRoutes(r *mux.Router, limiter *Limiter) {
	r.Use(requestID)

	api := r.PathPrefix("/v1").Subrouter()
	if limiter != nil {
		api.Use(limiter.Middleware(limiter.ClientKey))
	}
	api.HandleFunc("/annotations", h.RenderAnnotations).Methods("POST")

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(h.recorder.Registry(), promhttp.HandlerOpts{})).Methods("GET")
}

// RenderAnnotations turns a YAML/JSON model document into a .ann file
func (h *Handler) RenderAnnotations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.log.WithField("request_id", w.Header().Get(RequestIDHeader))

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.fail(w, log, start, status, err)
		return
	}
	model, err := modelfile.Load(bytes.NewReader(data))
	if err != nil {
		h.fail(w, log, start, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	stats, err := h.printer.WriteStats(&buf, model)
	res := report.NewResult(model.Name, report.TargetHTTP, r.RemoteAddr, stats, start, err)
	h.recorder.Record(res)
	res.LogSummary(log)
	if err != nil {
		http.Error(w, "Failed to render annotations", http.StatusInternalServerError)
		return
	}

	name := model.Name
	if name == "" {
		name = "annotations"
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", anno.ResolvePath(name, anno.Extension)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) fail(w http.ResponseWriter, log *logging.Logger, start time.Time, status int, err error) {
	res := report.NewResult("", report.TargetHTTP, "", anno.Stats{}, start, err)
	h.recorder.Record(res)
	log.Warn("rejected model document", map[string]interface{}{
		"status": status,
		"error":  err.Error(),
	})
	http.Error(w, err.Error(), status)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

// requestID echoes the caller's request ID or assigns a new one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
