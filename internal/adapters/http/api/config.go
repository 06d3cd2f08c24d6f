package api

import "net/http"

// ConfigDependencies defines the interface for client defaults.
type ConfigDependencies interface {
	DefaultMinRankChange() int
}

// ConfigHandler handles GET /api/config.
type ConfigHandler struct {
	deps ConfigDependencies
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(deps ConfigDependencies) *ConfigHandler {
	return &ConfigHandler{deps: deps}
}

type configResponse struct {
	MinRankChange int `json:"minRankChange"`
}

// HandleGetConfig returns the defaults the page starts from.
func (h *ConfigHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, configResponse{MinRankChange: h.deps.DefaultMinRankChange()})
}
