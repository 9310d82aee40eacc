package restserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chrissnell/fastclime/internal/catalog"
	"github.com/chrissnell/fastclime/internal/simulation"
	"github.com/chrissnell/fastclime/pkg/responseformat"
)

// defaultWindow is the metrics window served when no range is requested
const defaultWindow = 23 * time.Hour

var queryTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02T15", "2006-01-02"}

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// DepletionResponse is the latest depletion of a parcel
type DepletionResponse struct {
	ParcelID    string    `json:"parcel_id"`
	Time        time.Time `json:"ts"`
	DepletionMM float64   `json:"depletion_mm"`
	Ks          float64   `json:"ks"`
}

// GetParcels serves every known parcel
func (h *Handlers) GetParcels(w http.ResponseWriter, req *http.Request) {
	parcels, err := h.controller.store.Parcels(req.Context())
	if err != nil {
		h.serverError(w, req, err)
		return
	}
	h.formatter.WriteResponse(w, req, parcels)
}

// GetMetrics serves hourly metrics for a parcel. Without start and end it
// serves the day ending at the latest stored hour.
func (h *Handlers) GetMetrics(w http.ResponseWriter, req *http.Request) {
	parcelID := mux.Vars(req)["parcel"]
	start, end, ok := h.timeRange(w, req, parcelID)
	if !ok {
		return
	}

	metrics, err := h.controller.store.MetricsBetween(req.Context(), parcelID, start, end)
	if err != nil {
		h.serverError(w, req, err)
		return
	}
	h.formatter.WriteResponse(w, req, metrics)
}

// GetDepletion serves the most recent depletion of a parcel
func (h *Handlers) GetDepletion(w http.ResponseWriter, req *http.Request) {
	parcelID := mux.Vars(req)["parcel"]
	if !h.parcelExists(w, req, parcelID) {
		return
	}

	m, err := h.controller.store.LatestMetric(req.Context(), parcelID)
	if err != nil {
		h.lookupError(w, req, err)
		return
	}

	h.formatter.WriteResponse(w, req, DepletionResponse{
		ParcelID:    parcelID,
		Time:        m.Time,
		DepletionMM: m.Depletion,
		Ks:          m.Ks,
	})
}

// GetProjection serves the stored deficit projections of a parcel
func (h *Handlers) GetProjection(w http.ResponseWriter, req *http.Request) {
	parcelID := mux.Vars(req)["parcel"]
	if !h.parcelExists(w, req, parcelID) {
		return
	}

	projections, err := h.controller.store.Projections(req.Context(), parcelID)
	if err != nil {
		h.serverError(w, req, err)
		return
	}
	h.formatter.WriteResponse(w, req, projections)
}

// GetSummary serves aggregate statistics over a metrics range
func (h *Handlers) GetSummary(w http.ResponseWriter, req *http.Request) {
	parcelID := mux.Vars(req)["parcel"]
	start, end, ok := h.timeRange(w, req, parcelID)
	if !ok {
		return
	}

	metrics, err := h.controller.store.MetricsBetween(req.Context(), parcelID, start, end)
	if err != nil {
		h.serverError(w, req, err)
		return
	}

	summary := simulation.Summarize(metrics)
	summary.ParcelID = parcelID
	h.formatter.WriteResponse(w, req, summary)
}

// timeRange reads start and end from the query. When both are absent the
// range ends at the parcel's latest metric. It writes the error response
// and returns false on failure.
func (h *Handlers) timeRange(w http.ResponseWriter, req *http.Request, parcelID string) (time.Time, time.Time, bool) {
	if !h.parcelExists(w, req, parcelID) {
		return time.Time{}, time.Time{}, false
	}

	q := req.URL.Query()
	startParam, endParam := q.Get("start"), q.Get("end")

	if startParam == "" && endParam == "" {
		latest, err := h.controller.store.LatestMetric(req.Context(), parcelID)
		if err != nil {
			h.lookupError(w, req, err)
			return time.Time{}, time.Time{}, false
		}
		return latest.Time.Add(-defaultWindow), latest.Time, true
	}

	if startParam == "" || endParam == "" {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "start and end must be given together")
		return time.Time{}, time.Time{}, false
	}

	start, err := parseQueryTime(startParam)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return time.Time{}, time.Time{}, false
	}
	end, err := parseQueryTime(endParam)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "end is before start")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handlers) parcelExists(w http.ResponseWriter, req *http.Request, parcelID string) bool {
	if _, err := h.controller.store.Parcel(req.Context(), parcelID); err != nil {
		h.lookupError(w, req, err)
		return false
	}
	return true
}

func (h *Handlers) lookupError(w http.ResponseWriter, req *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		h.formatter.WriteError(w, req, http.StatusNotFound, err.Error())
		return
	}
	h.serverError(w, req, err)
}

func (h *Handlers) serverError(w http.ResponseWriter, req *http.Request, err error) {
	h.controller.logger.Errorw("request failed", "path", req.URL.Path, "error", err)
	h.formatter.WriteError(w, req, http.StatusInternalServerError, "internal error")
}

// parseQueryTime accepts RFC 3339 or an hour-resolution civil timestamp.
// Offsets are dropped and the wall-clock fields kept.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339 or 2006-01-02T15", s)
}
