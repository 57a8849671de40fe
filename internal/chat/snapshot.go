package chat

import (
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// snapshotFile is the on-disk shape of one bulk transcript snapshot.
type snapshotFile struct {
	SavedAt string            `json:"saved_at"`
	Chats   []json.RawMessage `json:"chats"`
}

// SaveSnapshot replaces the single stored snapshot with the given
// transcripts: every prior chats_*.json is deleted before the new
// timestamp-named file is written (at-most-one-live-snapshot). Returns the
// file name and full path.
func (s *Store) SaveSnapshot(chats []json.RawMessage) (string, string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", err
	}

	old, _ := filepath.Glob(filepath.Join(s.dir, "chats_*.json"))
	for _, f := range old {
		if err := os.Remove(f); err != nil {
			log.Warn().Err(err).Str("file", f).Msg("Failed to remove prior snapshot")
		}
	}

	ts := s.now().UTC().Format("20060102T150405") + "Z"
	name := "chats_" + ts + ".json"
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(snapshotFile{SavedAt: ts, Chats: chats}, "", "  ")
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}
	return name, path, nil
}

// LatestSnapshot returns the transcripts of the most recent snapshot by
// file-name ordering, or an empty list when none exists or parsing fails.
func (s *Store) LatestSnapshot() []json.RawMessage {
	matches, err := filepath.Glob(filepath.Join(s.dir, "chats_*.json"))
	if err != nil || len(matches) == 0 {
		return []json.RawMessage{}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return []json.RawMessage{}
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil || snap.Chats == nil {
		return []json.RawMessage{}
	}
	return snap.Chats
}
