package scanner

import "github.com/relaydrop/cli/pkg/source"

// Fingerprint is the (size, lastModified) pair cached per entry
type Fingerprint struct {
	Size    int64
	ModTime int64 // Unix millis
}

// Classification of an entry against the snapshot cache
type Classification int

const (
	ClassUnchanged Classification = iota
	ClassNew
	ClassModified
)

func (c Classification) String() string {
	switch c {
	case ClassUnchanged:
		return "unchanged"
	case ClassNew:
		return "new"
	case ClassModified:
		return "modified"
	default:
		return "unknown"
	}
}

// cachedEntry ties a fingerprint to the folder whose listing produced it, so
// purging one folder never touches another folder's keys.
type cachedEntry struct {
	fp       Fingerprint
	folderID string
}

// Snapshot caches the last observed fingerprint per entry key. It is owned by
// the scan loop and must only be mutated from there.
type Snapshot struct {
	entries map[string]cachedEntry
}

// NewSnapshot creates an empty snapshot cache
func NewSnapshot() *Snapshot {
	return &Snapshot{entries: make(map[string]cachedEntry)}
}

// Classify compares the entry against the cached fingerprint without
// updating the cache.
func (s *Snapshot) Classify(entry source.Entry) Classification {
	size, modTime := entry.Fingerprint()
	cached, ok := s.entries[entry.Key]
	if !ok {
		return ClassNew
	}
	if cached.fp.Size != size || cached.fp.ModTime != modTime {
		return ClassModified
	}
	return ClassUnchanged
}

// Update stores the entry's current fingerprint under the given folder.
func (s *Snapshot) Update(folderID string, entry source.Entry) {
	size, modTime := entry.Fingerprint()
	s.entries[entry.Key] = cachedEntry{
		fp:       Fingerprint{Size: size, ModTime: modTime},
		folderID: folderID,
	}
}

// Forget drops the cached fingerprint for a key.
func (s *Snapshot) Forget(key string) {
	delete(s.entries, key)
}

// Len returns the number of cached entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// PurgeAbsent removes the folder's cached keys not in present and returns the
// purged keys. Keys cached under other folders are left alone.
func (s *Snapshot) PurgeAbsent(folderID string, present map[string]bool) []string {
	var purged []string
	for key, cached := range s.entries {
		if cached.folderID != folderID {
			continue
		}
		if !present[key] {
			delete(s.entries, key)
			purged = append(purged, key)
		}
	}
	return purged
}
