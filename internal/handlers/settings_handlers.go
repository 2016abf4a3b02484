package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"slidecast/internal/logger"
	"slidecast/internal/services"
)

// SettingsHandler exposes the canvas settings
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
	}
}

// UpdateSettingRequest carries a new value for one setting
type UpdateSettingRequest struct {
	Value *string `json:"value"`
}

// GetSettings returns the current settings
// GET /settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get())
}

// UpdateSetting changes one setting
// PUT /settings/{key}
func (h *SettingsHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req UpdateSettingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	if err := h.settings.Set(key, *req.Value); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownSettingKey):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidSetting):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Log.Error().Err(err).Str("key", key).Msg("failed to update setting")
			writeError(w, http.StatusInternalServerError, "failed to update setting")
		}
		return
	}

	writeJSON(w, http.StatusOK, h.settings.Get())
}
