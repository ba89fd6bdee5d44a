package model

// TransferAction controls what happens to the source file after a successful
// transfer
type TransferAction string

const (
	ActionCopy TransferAction = "copy" // Leave the source in place
	ActionMove TransferAction = "move" // Delete the source after confirmation
)

// Valid reports whether the action is one of the known values.
func (a TransferAction) Valid() bool {
	return a == ActionCopy || a == ActionMove
}

// TransferStatus represents the outcome of a transfer attempt
type TransferStatus int

const (
	TransferStatusSent TransferStatus = iota
	TransferStatusFailed
)

func (s TransferStatus) String() string {
	switch s {
	case TransferStatusSent:
		return "sent"
	case TransferStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TransferRecord is the persisted record of a single transfer attempt
type TransferRecord struct {
	ID          string         `json:"id"`   // UUID
	Key         string         `json:"key"`  // Entry key (absolute path)
	Name        string         `json:"name"` // File name as sent on the wire
	Size        int64          `json:"size"`
	Hash        string         `json:"hash,omitempty"` // blake2b-256, hex
	Port        int            `json:"port"`
	Action      TransferAction `json:"action"`
	Status      TransferStatus `json:"status"`
	Message     string         `json:"message,omitempty"` // Peer response message or error text
	StartedAt   int64          `json:"startedAt"`         // Unix micros
	CompletedAt int64          `json:"completedAt"`       // Unix micros
}
