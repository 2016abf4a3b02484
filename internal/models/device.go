package models

// ConnectedDevice describes a mobile remote attached to the gateway
type ConnectedDevice struct {
	Model        string `json:"model"`
	DeviceType   string `json:"deviceType"`
	OS           string `json:"os"`
	OSVersion    string `json:"osVersion"`
	SDKVersion   string `json:"sdkVersion"`
	Language     string `json:"language"`
	Manufacturer string `json:"manufacturer"`
	UUID         string `json:"uuid"`
	Region       string `json:"region"`
}
