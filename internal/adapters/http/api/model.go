// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/fareprice/internal/adapters/artifact"
)

type modelResponse struct {
	Loaded bool           `json:"loaded"`
	Info   *artifact.Info `json:"info,omitempty"`
	Layout []string       `json:"layout"`
}

// ModelHandler describes the loaded model and the feature layout it expects.
type ModelHandler struct {
	deps Dependencies
}

// NewModelHandler creates a new model handler.
func NewModelHandler(deps Dependencies) *ModelHandler {
	return &ModelHandler{deps: deps}
}

// HandleModel handles GET /api/model requests.
func (h *ModelHandler) HandleModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "api.model", http.MethodGet)
		return
	}
	resp := modelResponse{Layout: h.deps.Layout()}
	if info, ok := h.deps.ModelInfo(); ok {
		resp.Loaded = true
		resp.Info = &info
	}
	writeJSON(w, http.StatusOK, resp)
}
