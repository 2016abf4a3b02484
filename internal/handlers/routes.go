package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"slidecast/internal/logger"
)

// SetupRoutes wires all handlers onto a router
func SetupRoutes(remote *RemoteHandler, settings *SettingsHandler, ws *WebSocketHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	// Remote control
	router.HandleFunc("/connect", remote.Connect).Methods(http.MethodPost)
	router.HandleFunc("/disconnect", remote.Disconnect).Methods(http.MethodPost)
	router.HandleFunc("/devices", remote.ListDevices).Methods(http.MethodGet)
	router.HandleFunc("/recentShows", remote.RecentShows).Methods(http.MethodGet)
	router.HandleFunc("/openRecentShow", remote.OpenRecentShow).Methods(http.MethodPost)
	router.HandleFunc("/slides", remote.Slides).Methods(http.MethodGet)
	router.HandleFunc("/slides/{index:[0-9]+}/select", remote.SelectSlide).Methods(http.MethodPost)
	router.HandleFunc("/slides/{index:[0-9]+}/thumbnail", remote.Thumbnail).Methods(http.MethodGet)
	router.HandleFunc("/next", remote.Next).Methods(http.MethodPost)
	router.HandleFunc("/previous", remote.Previous).Methods(http.MethodPost)

	// Settings
	router.HandleFunc("/settings", settings.GetSettings).Methods(http.MethodGet)
	router.HandleFunc("/settings/{key}", settings.UpdateSetting).Methods(http.MethodPut)

	// Event stream
	router.HandleFunc("/ws", ws.HandleWebSocket).Methods(http.MethodGet)

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The upgrade needs the raw writer for Hijack
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
