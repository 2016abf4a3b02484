package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"slidecast/internal/logger"
	"slidecast/internal/models"
	"slidecast/internal/services"
)

const (
	defaultThumbnailWidth  = 320
	defaultThumbnailHeight = 180
	maxThumbnailSide       = 1920
)

// RemoteHandler serves the mobile remote-control API
type RemoteHandler struct {
	registry *services.DeviceRegistry
	shows    *services.ShowService
}

// NewRemoteHandler creates a new remote handler
func NewRemoteHandler(registry *services.DeviceRegistry, shows *services.ShowService) *RemoteHandler {
	return &RemoteHandler{
		registry: registry,
		shows:    shows,
	}
}

// ConnectRequest registers a remote device
type ConnectRequest struct {
	Device *models.ConnectedDevice `json:"device"`
}

// DisconnectRequest removes a remote device
type DisconnectRequest struct {
	DeviceID string `json:"deviceId"`
}

// ShowRef identifies a show file
type ShowRef struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// OpenRecentShowRequest opens a show from the recent list
type OpenRecentShowRequest struct {
	Show *ShowRef `json:"show"`
}

// Connect registers a device
// POST /connect
func (h *RemoteHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Device == nil {
		writeError(w, http.StatusBadRequest, "device is required")
		return
	}
	if strings.TrimSpace(req.Device.UUID) == "" {
		writeError(w, http.StatusBadRequest, "device.uuid is required")
		return
	}

	h.registry.Add(*req.Device)
	writeSuccess(w)
}

// Disconnect removes every device with the given UUID
// POST /disconnect
func (h *RemoteHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	var req DisconnectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.DeviceID) == "" {
		writeError(w, http.StatusBadRequest, "deviceId is required")
		return
	}

	h.registry.Remove(req.DeviceID)
	writeSuccess(w)
}

// ListDevices returns the connected devices
// GET /devices
func (h *RemoteHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

// RecentShows returns the recently opened shows
// GET /recentShows
func (h *RemoteHandler) RecentShows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.shows.RecentShows()
	if err != nil {
		logger.Log.Error().Err(err).Msg("failed to list recent shows")
		writeError(w, http.StatusInternalServerError, "failed to list recent shows")
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

// OpenRecentShow opens a show and makes it current
// POST /openRecentShow
func (h *RemoteHandler) OpenRecentShow(w http.ResponseWriter, r *http.Request) {
	var req OpenRecentShowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Show == nil || strings.TrimSpace(req.Show.Path) == "" {
		writeError(w, http.StatusBadRequest, "show.path is required")
		return
	}

	if _, err := h.shows.Open(req.Show.Path); err != nil {
		logger.Log.Error().Err(err).Str("path", req.Show.Path).Msg("failed to open show")
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrShowFileNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrInvalidShowFile):
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	writeSuccess(w)
}

// Slides returns the current show's slides, or an empty list
// GET /slides
func (h *RemoteHandler) Slides(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.shows.Slides())
}

// SelectSlide puts a slide on air
// POST /slides/{index}/select
func (h *RemoteHandler) SelectSlide(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "slide index must be an integer")
		return
	}

	change, err := h.shows.Select(index)
	h.writeSlideChange(w, change, err)
}

// Next advances to the next slide
// POST /next
func (h *RemoteHandler) Next(w http.ResponseWriter, r *http.Request) {
	change, err := h.shows.Next()
	h.writeSlideChange(w, change, err)
}

// Previous goes back one slide
// POST /previous
func (h *RemoteHandler) Previous(w http.ResponseWriter, r *http.Request) {
	change, err := h.shows.Previous()
	h.writeSlideChange(w, change, err)
}

func (h *RemoteHandler) writeSlideChange(w http.ResponseWriter, change services.SlideChange, err error) {
	if err != nil {
		writeError(w, slideErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, change)
}

// Thumbnail returns a JPEG preview of an image slide
// GET /slides/{index}/thumbnail?width=&height=
func (h *RemoteHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "slide index must be an integer")
		return
	}

	width, ok := thumbnailSide(r.URL.Query().Get("width"), defaultThumbnailWidth)
	if !ok {
		writeError(w, http.StatusBadRequest, "width must be between 1 and 1920")
		return
	}
	height, ok := thumbnailSide(r.URL.Query().Get("height"), defaultThumbnailHeight)
	if !ok {
		writeError(w, http.StatusBadRequest, "height must be between 1 and 1920")
		return
	}

	slide, err := h.shows.Slide(index)
	if err != nil {
		writeError(w, slideErrorStatus(err), err.Error())
		return
	}

	data, err := services.Thumbnail(slide.FilePath, width, height)
	if err != nil {
		if errors.Is(err, services.ErrNoThumbnail) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Log.Error().Err(err).Str("file", slide.FilePath).Msg("failed to render thumbnail")
		writeError(w, http.StatusInternalServerError, "failed to render thumbnail")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func thumbnailSide(value string, fallback int) (int, bool) {
	if value == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || n > maxThumbnailSide {
		return 0, false
	}
	return n, true
}

func slideErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNoShow):
		return http.StatusConflict
	case errors.Is(err, services.ErrSlideOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnsupportedFile):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
