package jsonstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// FileStore keeps the vocabulary database in a single JSON file.
type FileStore struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.With("adapter", "jsonstore", "path", path),
	}
}

// Path returns the database file location.
func (s *FileStore) Path() string { return s.path }

// Load returns all entries. A missing or blank file yields an empty
// database. Any other unreadable or malformed file is an error, so a later
// Save never replaces data that failed to load.
func (s *FileStore) Load(ctx context.Context) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if isNotExist(err) {
			s.log.WarnContext(ctx, "database file not found, starting empty")
			return []domain.Entry{}, nil
		}
		return nil, fmt.Errorf("jsonstore: read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.log.WarnContext(ctx, "database file is empty, starting empty")
		return []domain.Entry{}, nil
	}

	return decodeEntries(s.path, data)
}

// Save replaces the database with entries.
func (s *FileStore) Save(ctx context.Context, entries []domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := WriteEntries(s.path, entries); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "database saved", slog.Int("entries", len(entries)))
	return nil
}

// Ping checks that the database file is readable.
func (s *FileStore) Ping(_ context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("jsonstore: %w", err)
	}
	return f.Close()
}
