package model

// AutoDetectSettings holds the filter parameters deciding whether a discovered
// file qualifies for transfer
type AutoDetectSettings struct {
	Enabled    bool     `json:"enabled"`
	Extensions []string `json:"extensions,omitempty"` // Allowed extensions, lower-case with dot; empty = any
	Patterns   []string `json:"patterns,omitempty"`   // doublestar globs matched against the file name; empty = any
	MinSize    int64    `json:"minSize,omitempty"`    // Bytes; 0 = no lower bound
	MaxSize    int64    `json:"maxSize,omitempty"`    // Bytes; 0 = no upper bound
	MaxAgeSec  int64    `json:"maxAgeSec,omitempty"`  // Ignore files older than this; 0 = no bound
}

// MediaOnlyProfile returns the filter profile accepting common media files
func MediaOnlyProfile() AutoDetectSettings {
	return AutoDetectSettings{
		Enabled: true,
		Extensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic",
			".mp4", ".mkv", ".mov", ".avi", ".webm",
			".mp3", ".flac", ".ogg", ".m4a", ".wav",
		},
	}
}

// GeneralProfile returns the filter profile accepting any non-empty file
func GeneralProfile() AutoDetectSettings {
	return AutoDetectSettings{
		Enabled: true,
		MinSize: 1,
	}
}
