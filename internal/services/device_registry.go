package services

import (
	"sync"

	"slidecast/internal/logger"
	"slidecast/internal/models"
)

// DeviceRegistry holds the connected remotes in connection order
type DeviceRegistry struct {
	mu      sync.RWMutex
	devices []models.ConnectedDevice
	events  EventPublisher
}

// NewDeviceRegistry creates an empty registry. events may be nil.
func NewDeviceRegistry(events EventPublisher) *DeviceRegistry {
	return &DeviceRegistry{events: events}
}

// Add appends device
func (r *DeviceRegistry) Add(device models.ConnectedDevice) {
	r.mu.Lock()
	r.devices = append(r.devices, device)
	snapshot := r.snapshot()
	r.mu.Unlock()

	logger.Log.Info().Str("uuid", device.UUID).Str("model", device.Model).Msg("device connected")
	r.notify(snapshot)
}

// Remove drops every device with uuid and returns how many were removed
func (r *DeviceRegistry) Remove(uuid string) int {
	r.mu.Lock()
	kept := r.devices[:0]
	for _, device := range r.devices {
		if device.UUID != uuid {
			kept = append(kept, device)
		}
	}
	removed := len(r.devices) - len(kept)
	r.devices = kept
	snapshot := r.snapshot()
	r.mu.Unlock()

	if removed > 0 {
		logger.Log.Info().Str("uuid", uuid).Int("removed", removed).Msg("device disconnected")
		r.notify(snapshot)
	}
	return removed
}

// List returns a copy of the connected devices
func (r *DeviceRegistry) List() []models.ConnectedDevice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// snapshot must be called with the lock held
func (r *DeviceRegistry) snapshot() []models.ConnectedDevice {
	out := make([]models.ConnectedDevice, len(r.devices))
	copy(out, r.devices)
	return out
}

func (r *DeviceRegistry) notify(devices []models.ConnectedDevice) {
	if r.events != nil {
		r.events.Publish(Event{Type: EventDevicesChanged, Data: devices})
	}
}
