package notify

import (
	"context"
	"fmt"
	"mime"
	"os/exec"
	"path/filepath"
	"time"
)

const shareTimeout = 30 * time.Second

// MimeType returns the best-effort MIME type for a file path, falling back
// to the wildcard type when the extension is unknown.
func MimeType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "*/*"
}

// Sharer offers a newly detected file to an external share mechanism
type Sharer interface {
	Share(ctx context.Context, path string) error
}

// CommandSharer runs a user-configured command with the file path and MIME
// type as arguments
type CommandSharer struct {
	Command string
}

func (s CommandSharer) Share(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, shareTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Command, path, MimeType(path))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("share command failed: %w (output: %s)", err, out)
	}
	return nil
}

// LogSharer just announces the file; used when no share command is configured
type LogSharer struct{}

func (LogSharer) Share(_ context.Context, path string) error {
	fmt.Printf("→ New file ready to share: %s (%s)\n", filepath.Base(path), MimeType(path))
	return nil
}

// NewSharer picks the sharer for the configured command.
func NewSharer(command string) Sharer {
	if command == "" {
		return LogSharer{}
	}
	return CommandSharer{Command: command}
}
