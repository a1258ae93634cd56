package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"kinobot/core/logger"
	"log/slog"
)

// entryRecord is the on-disk shape of a catalog entry. The code is the
// map key in the snapshot, not part of the record.
type entryRecord struct {
	Title    string   `json:"title"`
	Poster   string   `json:"poster"`
	Episodes []string `json:"episodes"`
}

// snapshotStore keeps the catalog in two JSON files, rewritten in full
// on every mutation. A snapshot that is missing or fails to parse is
// treated as empty, never as a fatal error.
type snapshotStore struct {
	moviesFile   string
	partnersFile string

	moviesMu   sync.Mutex
	partnersMu sync.Mutex
}

// NewSnapshotStore opens the JSON snapshot driver, creating empty
// snapshot files when none exist yet.
func NewSnapshotStore(moviesFile, partnersFile string) (Store, error) {
	s := &snapshotStore{
		moviesFile:   moviesFile,
		partnersFile: partnersFile,
	}
	if err := s.initFiles(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *snapshotStore) initFiles() error {
	if _, err := os.Stat(s.moviesFile); os.IsNotExist(err) {
		if err := writeSnapshot(s.moviesFile, map[string]entryRecord{}); err != nil {
			return fmt.Errorf("snapshot: init %s: %w", s.moviesFile, err)
		}
	}
	if _, err := os.Stat(s.partnersFile); os.IsNotExist(err) {
		if err := writeSnapshot(s.partnersFile, []string{}); err != nil {
			return fmt.Errorf("snapshot: init %s: %w", s.partnersFile, err)
		}
	}
	return nil
}

func (s *snapshotStore) loadMovies() map[string]entryRecord {
	var decoded map[string]entryRecord
	if readSnapshot(s.moviesFile, &decoded) && decoded != nil {
		return decoded
	}
	return map[string]entryRecord{}
}

func (s *snapshotStore) loadPartners() []string {
	var decoded []string
	if readSnapshot(s.partnersFile, &decoded) {
		return decoded
	}
	return nil
}

func (s *snapshotStore) GetEntry(code string) (Entry, bool, error) {
	s.moviesMu.Lock()
	defer s.moviesMu.Unlock()
	rec, ok := s.loadMovies()[code]
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{Code: code, Title: rec.Title, Poster: rec.Poster, Episodes: rec.Episodes}, true, nil
}

func (s *snapshotStore) PutEntry(entry Entry) error {
	s.moviesMu.Lock()
	defer s.moviesMu.Unlock()
	movies := s.loadMovies()
	movies[entry.Code] = entryRecord{
		Title:    entry.Title,
		Poster:   entry.Poster,
		Episodes: CleanEpisodes(entry.Episodes),
	}
	return writeSnapshot(s.moviesFile, movies)
}

func (s *snapshotStore) DeleteEntry(code string) (bool, error) {
	s.moviesMu.Lock()
	defer s.moviesMu.Unlock()
	movies := s.loadMovies()
	if _, ok := movies[code]; !ok {
		return false, nil
	}
	delete(movies, code)
	if err := writeSnapshot(s.moviesFile, movies); err != nil {
		return false, err
	}
	return true, nil
}

func (s *snapshotStore) CountEntries() (int, error) {
	s.moviesMu.Lock()
	defer s.moviesMu.Unlock()
	return len(s.loadMovies()), nil
}

func (s *snapshotStore) ListPartners() ([]string, error) {
	s.partnersMu.Lock()
	defer s.partnersMu.Unlock()
	return s.loadPartners(), nil
}

func (s *snapshotStore) AddPartner(handle string) error {
	handle = NormalizePartner(handle)
	if handle == "" {
		return nil
	}
	s.partnersMu.Lock()
	defer s.partnersMu.Unlock()
	partners := s.loadPartners()
	for _, p := range partners {
		if p == handle {
			return nil
		}
	}
	partners = append(partners, handle)
	return writeSnapshot(s.partnersFile, partners)
}

func (s *snapshotStore) DeletePartner(handle string) (bool, error) {
	s.partnersMu.Lock()
	defer s.partnersMu.Unlock()
	partners := s.loadPartners()
	for i, p := range partners {
		if p == handle {
			partners = append(partners[:i], partners[i+1:]...)
			if err := writeSnapshot(s.partnersFile, partners); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *snapshotStore) CountPartners() (int, error) {
	s.partnersMu.Lock()
	defer s.partnersMu.Unlock()
	return len(s.loadPartners()), nil
}

func (s *snapshotStore) Close() error { return nil }

// readSnapshot decodes the file into dst and reports success. Callers
// must discard dst on failure: json.Unmarshal can partially populate it
// before returning a type error, and a snapshot that fails to parse is
// treated as absent, not half-read.
func readSnapshot(path string, dst any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn(logger.Background(), "store", "snapshot.read_failed",
				slog.String("file", path),
				slog.String("err", err.Error()),
			)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn(logger.Background(), "store", "snapshot.corrupt",
			slog.String("file", path),
			slog.String("err", err.Error()),
		)
		return false
	}
	return true
}

// writeSnapshot replaces the file with a complete serialized collection.
// The temp-file rename keeps a crash from leaving a torn snapshot.
func writeSnapshot(path string, data any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: mkdir %s: %w", dir, err)
		}
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("snapshot: rename %s: %w", path, err)
	}
	return nil
}
