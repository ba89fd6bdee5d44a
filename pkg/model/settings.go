package model

import "time"

// FolderConfig describes a single monitored folder
type FolderConfig struct {
	ID           string             `json:"id"`           // Stable identifier (UUID)
	Path         string             `json:"path"`         // Absolute folder path
	DisplayName  string             `json:"displayName"`  // Human-readable name shown in output
	Enabled      bool               `json:"enabled"`      // Whether the folder is scanned
	ScanDelaySec int                `json:"scanDelaySec"` // Per-folder stabilization delay, clamped to [0, 60]
	Port         int                `json:"port"`         // Target port (0 = global default)
	Action       TransferAction     `json:"action"`       // What happens to the source after a successful transfer
	AutoShare    bool               `json:"autoShare"`    // Fire the share side-effect for new files
	Filter       AutoDetectSettings `json:"filter"`       // Auto-detect filter for this folder
}

// Name returns the display name, falling back to the path.
func (f *FolderConfig) Name() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Path
}

// ScanDelay returns the stabilization delay as a duration.
func (f *FolderConfig) ScanDelay() time.Duration {
	return time.Duration(f.ScanDelaySec) * time.Second
}

// MonitorSettings holds the global monitor flags
type MonitorSettings struct {
	AutoShare       bool   `json:"autoShare"`       // Global auto-share switch (AND-ed with per-folder flag)
	DefaultPort     int    `json:"defaultPort"`     // Port used when a folder does not set one
	PollIntervalSec int    `json:"pollIntervalSec"` // Cadence of the poll loop
	WebhookURL      string `json:"webhookUrl,omitempty"`
	ShareCommand    string `json:"shareCommand,omitempty"` // Command invoked for the share side-effect
}

// PollInterval returns the poll cadence as a duration, defaulting to one second.
func (m *MonitorSettings) PollInterval() time.Duration {
	if m.PollIntervalSec <= 0 {
		return time.Second
	}
	return time.Duration(m.PollIntervalSec) * time.Second
}

// Settings is the persisted configuration document
type Settings struct {
	Folders []FolderConfig  `json:"folders"`
	Monitor MonitorSettings `json:"monitor"`
}

// DefaultSettings returns the settings used when no configuration exists
func DefaultSettings() *Settings {
	return &Settings{
		Folders: []FolderConfig{},
		Monitor: MonitorSettings{
			AutoShare:       false,
			DefaultPort:     DefaultPort,
			PollIntervalSec: 1,
		},
	}
}

// ClampScanDelay clamps a folder scan delay to the allowed [0, 60] second range
func ClampScanDelay(seconds int) int {
	if seconds < 0 {
		return 0
	}
	if seconds > MaxScanDelaySec {
		return MaxScanDelaySec
	}
	return seconds
}

// Normalize clamps all folder delays and fills missing IDs-independent defaults.
// Called by the config store on save and after load.
func (s *Settings) Normalize() {
	for i := range s.Folders {
		s.Folders[i].ScanDelaySec = ClampScanDelay(s.Folders[i].ScanDelaySec)
		if s.Folders[i].Action == "" {
			s.Folders[i].Action = ActionCopy
		}
	}
	if s.Monitor.DefaultPort == 0 {
		s.Monitor.DefaultPort = DefaultPort
	}
	if s.Monitor.PollIntervalSec <= 0 {
		s.Monitor.PollIntervalSec = 1
	}
}

// FolderByID returns the folder config with the given ID, or nil.
func (s *Settings) FolderByID(id string) *FolderConfig {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}
