package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"slidecast/internal/logger"
	"slidecast/internal/models"
)

// Setting keys accepted by SettingsService.Set
const (
	SettingWidth           = "width"
	SettingHeight          = "height"
	SettingPaddingSize     = "paddingSize"
	SettingBackgroundColor = "backgroundColor"
)

var (
	ErrUnknownSettingKey = errors.New("unknown setting")
	ErrInvalidSetting    = errors.New("invalid setting value")
)

// SettingsPersister stores the settings record
type SettingsPersister interface {
	LoadSettings() (models.Settings, bool, error)
	SaveSettings(settings models.Settings) error
}

// SettingsListener is called after a change has been persisted
type SettingsListener func(previous, current models.Settings)

// SettingsService keeps the canvas settings and writes them through on change
type SettingsService struct {
	mu        sync.RWMutex
	persister SettingsPersister
	current   models.Settings
	listeners []SettingsListener
}

// NewSettingsService loads settings, using defaults when none are stored
func NewSettingsService(persister SettingsPersister) (*SettingsService, error) {
	settings, found, err := persister.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !found {
		settings = models.DefaultSettings()
	}

	return &SettingsService{
		persister: persister,
		current:   settings,
	}, nil
}

// Get returns the current settings
func (s *SettingsService) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnChange registers fn to run after each persisted change
func (s *SettingsService) OnChange(fn SettingsListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set updates one setting. Setting the current value is a no-op and does
// not reach the persister.
func (s *SettingsService) Set(key, value string) error {
	s.mu.Lock()

	updated, err := applySetting(s.current, key, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if updated == s.current {
		s.mu.Unlock()
		return nil
	}

	if err := s.persister.SaveSettings(updated); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save settings: %w", err)
	}

	previous := s.current
	s.current = updated
	listeners := append([]SettingsListener(nil), s.listeners...)
	s.mu.Unlock()

	logger.Log.Info().Str("key", key).Str("value", value).Msg("setting updated")
	for _, fn := range listeners {
		fn(previous, updated)
	}
	return nil
}

func applySetting(settings models.Settings, key, value string) (models.Settings, error) {
	value = strings.TrimSpace(value)

	switch key {
	case SettingWidth, SettingHeight:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return settings, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidSetting, key)
		}
		if key == SettingWidth {
			settings.Width = n
		} else {
			settings.Height = n
		}
	case SettingPaddingSize:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return settings, fmt.Errorf("%w: %s must be zero or positive", ErrInvalidSetting, key)
		}
		settings.PaddingSize = n
	case SettingBackgroundColor:
		color, err := normalizeColor(value)
		if err != nil {
			return settings, err
		}
		settings.BackgroundColor = color
	default:
		return settings, fmt.Errorf("%w: %s", ErrUnknownSettingKey, key)
	}
	return settings, nil
}

// normalizeColor accepts #RRGGBB in any case and returns it lowercased
func normalizeColor(value string) (string, error) {
	if len(value) != 7 || value[0] != '#' {
		return "", fmt.Errorf("%w: backgroundColor must look like #rrggbb", ErrInvalidSetting)
	}
	if _, err := strconv.ParseUint(value[1:], 16, 32); err != nil {
		return "", fmt.Errorf("%w: backgroundColor must look like #rrggbb", ErrInvalidSetting)
	}
	return strings.ToLower(value), nil
}
