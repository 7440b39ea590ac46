package resultserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/vmihailenco/msgpack/v5"
)

// Handlers contains all HTTP handlers for the result server.
type Handlers struct {
	controller *Controller
}

// NewHandlers creates a new handlers instance.
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl}
}

// respond writes data in the negotiated format: msgpack when the query asks
// for it, JSON otherwise.
func (h *Handlers) respond(w http.ResponseWriter, req *http.Request, status int, data any) {
	if req.URL.Query().Get("format") == "msgpack" {
		w.Header().Set("Content-Type", "application/x-msgpack")
		w.WriteHeader(status)
		if err := msgpack.NewEncoder(w).Encode(data); err != nil {
			h.controller.logger.Errorf("encoding msgpack response: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.controller.logger.Errorf("encoding json response: %v", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	h.respond(w, req, status, map[string]string{"error": msg})
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTrials returns all stored trials.
func (h *Handlers) ListTrials(w http.ResponseWriter, req *http.Request) {
	trials, err := h.controller.Store.ListTrials(req.Context())
	if err != nil {
		h.controller.logger.Errorf("listing trials: %v", err)
		h.respondError(w, req, http.StatusInternalServerError, "failed to list trials")
		return
	}
	h.respond(w, req, http.StatusOK, trials)
}

// GetTrial returns one trial's metadata.
func (h *Handlers) GetTrial(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	trial, found, err := h.controller.Store.GetTrial(req.Context(), id)
	if err != nil {
		h.controller.logger.Errorf("fetching trial %s: %v", id, err)
		h.respondError(w, req, http.StatusInternalServerError, "failed to fetch trial")
		return
	}
	if !found {
		h.respondError(w, req, http.StatusNotFound, "trial not found")
		return
	}
	h.respond(w, req, http.StatusOK, trial)
}

// GetSegments returns one trial's segments.
func (h *Handlers) GetSegments(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	_, found, err := h.controller.Store.GetTrial(req.Context(), id)
	if err != nil {
		h.controller.logger.Errorf("fetching trial %s: %v", id, err)
		h.respondError(w, req, http.StatusInternalServerError, "failed to fetch trial")
		return
	}
	if !found {
		h.respondError(w, req, http.StatusNotFound, "trial not found")
		return
	}

	segments, err := h.controller.Store.GetSegments(req.Context(), id)
	if err != nil {
		h.controller.logger.Errorf("fetching segments for %s: %v", id, err)
		h.respondError(w, req, http.StatusInternalServerError, "failed to fetch segments")
		return
	}
	h.respond(w, req, http.StatusOK, segments)
}

// GetSummary returns per-kind segment counts for one trial.
func (h *Handlers) GetSummary(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	_, found, err := h.controller.Store.GetTrial(req.Context(), id)
	if err != nil {
		h.controller.logger.Errorf("fetching trial %s: %v", id, err)
		h.respondError(w, req, http.StatusInternalServerError, "failed to fetch trial")
		return
	}
	if !found {
		h.respondError(w, req, http.StatusNotFound, "trial not found")
		return
	}

	counts, err := h.controller.Store.CountsByKind(req.Context(), id)
	if err != nil {
		h.controller.logger.Errorf("counting segments for %s: %v", id, err)
		h.respondError(w, req, http.StatusInternalServerError, "failed to count segments")
		return
	}
	h.respond(w, req, http.StatusOK, counts)
}
