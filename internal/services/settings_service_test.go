package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidecast/internal/models"
)

type fakePersister struct {
	stored  *models.Settings
	saves   []models.Settings
	saveErr error
	loadErr error
}

func (p *fakePersister) LoadSettings() (models.Settings, bool, error) {
	if p.loadErr != nil {
		return models.Settings{}, false, p.loadErr
	}
	if p.stored == nil {
		return models.Settings{}, false, nil
	}
	return *p.stored, true, nil
}

func (p *fakePersister) SaveSettings(settings models.Settings) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saves = append(p.saves, settings)
	return nil
}

func TestSettingsService_DefaultsWhenNothingStored(t *testing.T) {
	svc, err := NewSettingsService(&fakePersister{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), svc.Get())
}

func TestSettingsService_LoadsStored(t *testing.T) {
	stored := models.Settings{Width: 1080, Height: 1920, PaddingSize: 10, BackgroundColor: "#ffffff"}
	svc, err := NewSettingsService(&fakePersister{stored: &stored})
	require.NoError(t, err)
	assert.Equal(t, stored, svc.Get())
}

func TestSettingsService_LoadError(t *testing.T) {
	_, err := NewSettingsService(&fakePersister{loadErr: errors.New("locked")})
	assert.Error(t, err)
}

func TestSettingsService_SameValueSkipsPersistence(t *testing.T) {
	persister := &fakePersister{}
	svc, err := NewSettingsService(persister)
	require.NoError(t, err)
	called := 0
	svc.OnChange(func(previous, current models.Settings) { called++ })

	require.NoError(t, svc.Set(SettingWidth, "1920"))
	require.NoError(t, svc.Set(SettingBackgroundColor, "#000000"))

	assert.Empty(t, persister.saves)
	assert.Equal(t, 0, called)
}

func TestSettingsService_NewValuePersistsOnce(t *testing.T) {
	a := assert.New(t)
	persister := &fakePersister{}
	svc, err := NewSettingsService(persister)
	require.NoError(t, err)

	var previous, current models.Settings
	svc.OnChange(func(p, c models.Settings) { previous, current = p, c })

	require.NoError(t, svc.Set(SettingHeight, "1200"))

	expected := models.DefaultSettings()
	expected.Height = 1200
	a.Equal([]models.Settings{expected}, persister.saves)
	a.Equal(expected, svc.Get())
	a.Equal(models.DefaultSettings(), previous)
	a.Equal(expected, current)
}

func TestSettingsService_ColorIsNormalized(t *testing.T) {
	persister := &fakePersister{}
	svc, err := NewSettingsService(persister)
	require.NoError(t, err)

	require.NoError(t, svc.Set(SettingBackgroundColor, "#00FF7f"))
	require.NoError(t, svc.Set(SettingBackgroundColor, "#00ff7F"))

	assert.Len(t, persister.saves, 1)
	assert.Equal(t, "#00ff7f", svc.Get().BackgroundColor)
}

func TestSettingsService_RejectsBadInput(t *testing.T) {
	persister := &fakePersister{}
	svc, err := NewSettingsService(persister)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Set("volume", "3"), ErrUnknownSettingKey)
	assert.ErrorIs(t, svc.Set(SettingWidth, "0"), ErrInvalidSetting)
	assert.ErrorIs(t, svc.Set(SettingHeight, "tall"), ErrInvalidSetting)
	assert.ErrorIs(t, svc.Set(SettingPaddingSize, "-1"), ErrInvalidSetting)
	assert.ErrorIs(t, svc.Set(SettingBackgroundColor, "red"), ErrInvalidSetting)
	assert.ErrorIs(t, svc.Set(SettingBackgroundColor, "#12345g"), ErrInvalidSetting)
	assert.Empty(t, persister.saves)
	assert.Equal(t, models.DefaultSettings(), svc.Get())
}

func TestSettingsService_SaveFailureKeepsOldValue(t *testing.T) {
	persister := &fakePersister{saveErr: errors.New("disk full")}
	svc, err := NewSettingsService(persister)
	require.NoError(t, err)

	assert.Error(t, svc.Set(SettingPaddingSize, "20"))
	assert.Equal(t, 0, svc.Get().PaddingSize)
}
