// Package notify delivers transfer outcome notifications: colored console
// lines, and optionally a JSON webhook.
package notify

import (
	"hash/fnv"
	"log"

	"github.com/fatih/color"
)

// Notification carries the identifier and two text fields of a local
// notification. The ID is derived from the file name; colliding IDs
// deliberately overwrite rather than stack.
type Notification struct {
	ID    uint32 `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	File  string `json:"file,omitempty"`
	Mime  string `json:"mime,omitempty"`
	OK    bool   `json:"ok"`
}

// ID returns the notification identifier for a file name.
func ID(fileName string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(fileName))
	return h.Sum32()
}

// Notifier delivers a notification. Implementations must not block the
// caller for long; failures are logged, never returned to the scan path.
type Notifier interface {
	Notify(n Notification)
}

// Console prints notifications as colored lines
type Console struct{}

func (Console) Notify(n Notification) {
	if n.OK {
		color.Green("✓ %s: %s", n.Title, n.Body)
	} else {
		color.Red("✗ %s: %s", n.Title, n.Body)
	}
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// Discard drops all notifications (used in tests)
type Discard struct{}

func (Discard) Notify(Notification) {}

// logf is a hook point for the webhook notifier's error reporting.
var logf = log.Printf
