package models

import "time"

// Slide references a file shown as one step of a show
type Slide struct {
	FilePath string `json:"filePath"`
	Name     string `json:"name,omitempty"`
}

// Show is an ordered list of slides loaded from a show file
type Show struct {
	Name   string  `json:"name"`
	Path   string  `json:"path"`
	Slides []Slide `json:"slides"`
}

// ShowFile is the on-disk JSON layout of a show
type ShowFile struct {
	Name   string  `json:"name"`
	Slides []Slide `json:"slides"`
}

// RecentShow is an entry of the recently opened shows list
type RecentShow struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	OpenedAt time.Time `json:"openedAt"`
}
