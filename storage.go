package avoir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ratesFilename is the name of the persisted rates file inside the data path.
const ratesFilename = "rates.json"

// ratesFile is the persisted layout: the last durable save timestamp plus
// the full matrix as nested string-keyed maps of decimal-as-string.
type ratesFile struct {
	LastSaved string                       `json:"last_saved,omitempty"`
	Rates     map[string]map[string]string `json:"rates"`
}

// FileRateStorage persists the rate matrix to a JSON file under a data
// directory. It is safe for concurrent use.
type FileRateStorage struct {
	mu   sync.Mutex
	path string

	lastSaved time.Time
	loaded    bool
}

// NewFileRateStorage returns a storage writing to <dataPath>/rates.json.
func NewFileRateStorage(dataPath string) *FileRateStorage {
	return &FileRateStorage{path: filepath.Join(dataPath, ratesFilename)}
}

// Get reads and decodes the persisted matrix. A missing file is not an
// error: it returns an empty matrix, like a fresh install.
func (s *FileRateStorage) Get(_ context.Context) (RateMatrix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return nil, err
	}

	matrix := make(RateMatrix, len(file.Rates))
	for base, quotes := range file.Rates {
		row := make(map[string]Rate, len(quotes))
		for quote, raw := range quotes {
			rate, err := ParseRate(raw)
			if err != nil {
				log.Printf("skipping invalid stored rate %s->%s: %v", base, quote, err)
				continue
			}
			row[quote] = rate
		}
		matrix[base] = row
	}
	return matrix, nil
}

// LastSaved returns the timestamp of the last durable save, or the zero
// time when the matrix was never saved.
func (s *FileRateStorage) LastSaved(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if _, err := s.read(); err != nil {
			return time.Time{}, err
		}
	}
	return s.lastSaved, nil
}

// Save encodes the matrix and writes it atomically (temp file + rename).
func (s *FileRateStorage) Save(_ context.Context, m RateMatrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	serializable := make(map[string]map[string]string, len(m))
	for base, quotes := range m {
		row := make(map[string]string, len(quotes))
		for quote, rate := range quotes {
			row[quote] = rate.String()
		}
		serializable[base] = row
	}

	now := time.Now()
	content, err := json.MarshalIndent(ratesFile{
		LastSaved: now.Format(time.RFC3339),
		Rates:     serializable,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode rates: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("could not write rates file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("could not replace rates file: %w", err)
	}

	s.lastSaved = now
	s.loaded = true
	return nil
}

// read decodes the file on disk, memoizing the last-saved timestamp.
// Callers must hold the mutex.
func (s *FileRateStorage) read() (ratesFile, error) {
	var file ratesFile

	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.loaded = true
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("could not read rates file %q: %w", s.path, err)
	}

	if err := json.Unmarshal(content, &file); err != nil {
		return file, fmt.Errorf("could not decode rates file %q: %w", s.path, err)
	}

	if file.LastSaved != "" {
		saved, err := time.Parse(time.RFC3339, file.LastSaved)
		if err != nil {
			log.Printf("malformed last_saved timestamp in %q: %v", s.path, err)
		} else {
			s.lastSaved = saved
		}
	}
	s.loaded = true
	return file, nil
}
