package services

import (
	"strings"

	"slidecast/internal/engine"
)

// SupportedFileType maps file extensions to an engine source kind
type SupportedFileType struct {
	Extensions  []string
	DisplayName string
	Kind        engine.Kind
}

// supportedFileTypes is scanned in order; extensions are lowercase, without
// the leading dot, and disjoint across entries.
var supportedFileTypes = []SupportedFileType{
	{
		Extensions:  []string{"png", "jpg", "jpeg", "jpe", "gif", "bmp", "tga", "psd", "webp"},
		DisplayName: "Image",
		Kind:        engine.KindImage,
	},
	{
		Extensions: []string{"mp4", "m4v", "mkv", "mov", "avi", "webm", "flv", "ts", "mts", "m2ts",
			"mpg", "mpeg", "wmv", "mp3", "aac", "ogg", "wav", "flac", "m4a", "opus"},
		DisplayName: "Video/Audio",
		Kind:        engine.KindMedia,
	},
	{
		Extensions:  []string{"txt"},
		DisplayName: "Text",
		Kind:        engine.KindText,
	},
	{
		Extensions:  []string{"html", "htm"},
		DisplayName: "Web page",
		Kind:        engine.KindWeb,
	},
}

// SupportedFileTypes returns a copy of the file type table
func SupportedFileTypes() []SupportedFileType {
	out := make([]SupportedFileType, len(supportedFileTypes))
	for i, ft := range supportedFileTypes {
		ft.Extensions = append([]string(nil), ft.Extensions...)
		out[i] = ft
	}
	return out
}

// LookupFileType finds the entry for ext. The leading dot is optional and
// matching is case-insensitive.
func LookupFileType(ext string) (SupportedFileType, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return SupportedFileType{}, false
	}
	for _, ft := range supportedFileTypes {
		for _, candidate := range ft.Extensions {
			if candidate == ext {
				return ft, true
			}
		}
	}
	return SupportedFileType{}, false
}

// SourceSettings builds the kind-specific settings record for path
func SourceSettings(kind engine.Kind, path string) engine.Settings {
	switch kind {
	case engine.KindImage:
		return engine.Settings{"file": path}
	case engine.KindMedia:
		return engine.Settings{"is_local_file": true, "local_file": path, "looping": true}
	case engine.KindText:
		return engine.Settings{"read_from_file": true, "file": path}
	case engine.KindWeb:
		return engine.Settings{"is_local_file": true, "local_file": path}
	}
	return engine.Settings{}
}
