package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/db"
	"slidecast/internal/discovery"
	"slidecast/internal/engine"
	"slidecast/internal/handlers"
	"slidecast/internal/logger"
	"slidecast/internal/models"
	"slidecast/internal/services"
)

func main() {
	showPath := flag.String("show", "", "show file to open at startup")
	flag.Parse()

	// Load configuration
	cfg := config.LoadConfig()
	logger.Initialize(cfg.LogLevel)

	// Initialize database
	if err := db.InitDatabase(cfg.Data.DBPath); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	// Settings drive the canvas size, so they load before the engine starts
	settingsService, err := services.NewSettingsService(services.NewSQLSettingsStore(db.DB))
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to load settings")
	}
	canvas := settingsService.Get()

	// Start the engine
	signals := engine.NewSignals(64)
	defer signals.Close()

	headless := engine.NewHeadless(signals)
	if err := engine.Start(headless, canvas.Width, canvas.Height, cfg.Engine.FPS); err != nil {
		if initErr, ok := engine.AsInitError(err); ok {
			logger.Log.Fatal().Int("code", initErr.Code).Msg(engine.InitErrorMessage(initErr.Code))
		}
		logger.Log.Fatal().Err(err).Msg("failed to start engine")
	}
	defer headless.Shutdown()
	applyBackground(headless, canvas.BackgroundColor)

	// Initialize services
	wsService := services.NewWebSocketService()
	go wsService.Run()
	defer wsService.Stop()

	stopForwarding, err := wsService.ForwardSignals(signals)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to forward engine signals")
	}
	defer stopForwarding()

	settingsService.OnChange(func(previous, current models.Settings) {
		if previous.Width != current.Width || previous.Height != current.Height {
			base := fmt.Sprintf("%dx%d", current.Width, current.Height)
			if err := headless.SetSetting("Video", "Untitled", "Base", base); err != nil {
				logger.Log.Error().Err(err).Str("base", base).Msg("failed to resize canvas")
			}
		}
		if previous.BackgroundColor != current.BackgroundColor {
			applyBackground(headless, current.BackgroundColor)
		}
		wsService.Publish(services.Event{Type: services.EventSettingsChanged, Data: current})
	})

	transitioner, err := services.NewTransitioner(headless, signals, cfg.Engine.TransitionTimeout)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to create transitioner")
	}
	defer transitioner.Close()

	dispatcher := services.NewDispatcher(headless, transitioner, settingsService, services.AlignmentOptions{
		Alignment: services.AlignCenter,
		ScaleMode: services.ScaleFit,
	})
	showService := services.NewShowService(services.NewSQLRecentShowStore(db.DB), dispatcher, wsService)
	defer showService.Close()
	deviceRegistry := services.NewDeviceRegistry(wsService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go services.NewStatsPoller(headless, wsService, cfg.Engine.StatsInterval).Run(ctx)

	if *showPath != "" {
		if _, err := showService.Open(*showPath); err != nil {
			logger.Log.Error().Err(err).Str("path", *showPath).Msg("failed to open startup show")
		}
	}

	// Initialize handlers
	remoteHandler := handlers.NewRemoteHandler(deviceRegistry, showService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	wsHandler := handlers.NewWebSocketHandler(wsService)

	// Setup routes
	router := handlers.SetupRoutes(remoteHandler, settingsHandler, wsHandler)

	// Configure server
	server := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Advertise on the LAN
	if cfg.Discovery.Enabled {
		port, _ := strconv.Atoi(cfg.Server.Port)
		advertiser, err := discovery.Advertise(cfg.Discovery.Instance, port, map[string]string{
			"path": "/ws",
			"tls":  strconv.FormatBool(cfg.TLS.Enabled),
		})
		if err != nil {
			logger.Log.Warn().Err(err).Msg("mdns advertisement disabled")
		} else {
			defer advertiser.Shutdown()
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		// Configure TLS if enabled
		if cfg.TLS.Enabled {
			server.TLSConfig = &tls.Config{
				MinVersion: getTLSVersion(cfg.TLS.MinVersion),
			}

			logger.Log.Info().
				Str("addr", server.Addr).
				Str("cert", cfg.TLS.CertFile).
				Str("key", cfg.TLS.KeyFile).
				Str("minVersion", cfg.TLS.MinVersion).
				Msg("starting HTTPS server")

			serverErr <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			logger.Log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
			logger.Log.Warn().Msg("HTTP mode is not recommended outside a trusted network")

			serverErr <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		logger.Log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("graceful shutdown failed")
		}
	}
}

// applyBackground pushes the canvas background color to the engine
func applyBackground(eng engine.Engine, color string) {
	if err := eng.SetSetting("Video", "Untitled", "BackgroundColor", color); err != nil {
		logger.Log.Error().Err(err).Str("color", color).Msg("failed to set background color")
	}
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
