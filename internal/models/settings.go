package models

// Settings is the persisted canvas configuration
type Settings struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	PaddingSize     int    `json:"paddingSize"`
	BackgroundColor string `json:"backgroundColor"`
}

// DefaultSettings returns the settings used before anything is persisted
func DefaultSettings() Settings {
	return Settings{
		Width:           1920,
		Height:          1080,
		PaddingSize:     0,
		BackgroundColor: "#000000",
	}
}
