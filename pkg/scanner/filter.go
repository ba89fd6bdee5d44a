package scanner

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/relaydrop/cli/pkg/model"
	"github.com/relaydrop/cli/pkg/source"
)

// Accept decides whether a discovered entry qualifies for transfer under the
// folder's auto-detect settings. Pure predicate over metadata the caller
// already fetched; no I/O.
func Accept(filter model.AutoDetectSettings, entry source.Entry, now time.Time) bool {
	if !filter.Enabled {
		return false
	}

	if len(filter.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(entry.Name))
		found := false
		for _, allowed := range filter.Extensions {
			if ext == strings.ToLower(allowed) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Patterns) > 0 {
		matched := false
		for _, pattern := range filter.Patterns {
			if ok, err := doublestar.Match(pattern, entry.Name); err == nil && ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if filter.MinSize > 0 && entry.Size < filter.MinSize {
		return false
	}
	if filter.MaxSize > 0 && entry.Size > filter.MaxSize {
		return false
	}

	if filter.MaxAgeSec > 0 {
		age := now.Sub(entry.ModTime)
		if age > time.Duration(filter.MaxAgeSec)*time.Second {
			return false
		}
	}

	return true
}
