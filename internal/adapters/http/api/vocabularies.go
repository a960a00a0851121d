// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

type vocabulariesResponse struct {
	Airlines     []string `json:"airlines"`
	Sources      []string `json:"sources"`
	Destinations []string `json:"destinations"`
	TotalStops   []string `json:"total_stops"`
}

// VocabulariesHandler lists the values each categorical input accepts.
type VocabulariesHandler struct {
	deps Dependencies
}

// NewVocabulariesHandler creates a new vocabularies handler.
func NewVocabulariesHandler(deps Dependencies) *VocabulariesHandler {
	return &VocabulariesHandler{deps: deps}
}

// HandleVocabularies handles GET /api/vocabularies requests. Categories are
// sorted for display; stops stay in value order.
func (h *VocabulariesHandler) HandleVocabularies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "api.vocabularies", http.MethodGet)
		return
	}
	set := h.deps.Vocabularies()
	writeJSON(w, http.StatusOK, vocabulariesResponse{
		Airlines:     set.Airlines.Sorted(),
		Sources:      set.Sources.Sorted(),
		Destinations: set.Destinations.Sorted(),
		TotalStops:   set.Stops.Labels(),
	})
}
