package handler

import (
	"encoding/json"
	"net/http"

	"github.com/5hiel/artistic-minds-sub000/internal/engine"
)

// AdminHandler exposes the runtime configuration surface.
type AdminHandler struct {
	engine *engine.Engine
}

// NewAdminHandler creates the handler.
func NewAdminHandler(eng *engine.Engine) *AdminHandler {
	return &AdminHandler{engine: eng}
}

// GetConfig handles GET /v1/config.
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Config())
}

// PutConfig handles PUT /v1/config. The body overlays the active snapshot,
// so partial updates only touch the fields they name.
func (h *AdminHandler) PutConfig(w http.ResponseWriter, r *http.Request) {
	cfg := *h.engine.Config()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine.Reconfigure(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.engine.Config())
}
