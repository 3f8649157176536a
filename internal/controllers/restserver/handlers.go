package restserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/powersim/solarparam/internal/log"
	"github.com/powersim/solarparam/internal/types"
	"github.com/powersim/solarparam/pkg/responseformat"
)

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

// parameterInfo is the API projection of a parameter definition.
type parameterInfo struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Output bool   `json:"output"`
}

// GetParameters handles requests for the configured parameter list
func (h *Handlers) GetParameters(w http.ResponseWriter, req *http.Request) {
	infos := make([]parameterInfo, 0, len(h.controller.parameters))
	for _, p := range h.controller.parameters {
		infos = append(infos, parameterInfo{Name: p.Name, Type: p.Type, Output: p.Output})
	}

	if err := h.formatter.WriteResponse(w, req, infos, nil); err != nil {
		log.Errorf("error writing parameters response: %v", err)
	}
}

// latestResponse wraps the latest samples with the time they were served.
type latestResponse struct {
	AsOf    time.Time      `json:"as_of"`
	Samples []types.Sample `json:"samples"`
}

// GetLatest handles requests for the most recent sample of every parameter
func (h *Handlers) GetLatest(w http.ResponseWriter, req *http.Request) {
	resp := latestResponse{
		AsOf:    time.Now().UTC(),
		Samples: h.controller.store.Latest(),
	}

	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Errorf("error writing latest response: %v", err)
	}
}

// seriesResponse is the retained history for one parameter.
type seriesResponse struct {
	Parameter string         `json:"parameter"`
	Samples   []types.Sample `json:"samples"`
}

// GetSeries handles requests for the retained history of one parameter.
// An optional limit query parameter caps the response to the N most recent
// samples.
func (h *Handlers) GetSeries(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	samples, ok := h.controller.store.Series(name)
	if !ok {
		http.Error(w, "no samples for parameter: "+name, http.StatusNotFound)
		return
	}

	if limitStr := req.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			http.Error(w, "invalid limit: "+limitStr, http.StatusBadRequest)
			return
		}
		if limit < len(samples) {
			samples = samples[len(samples)-limit:]
		}
	}

	resp := seriesResponse{Parameter: name, Samples: samples}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Errorf("error writing series response: %v", err)
	}
}
