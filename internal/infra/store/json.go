package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// JSONSettings configures the JSON file store.
type JSONSettings struct {
	Path string `mapstructure:"path" default:"playlist_data.json" validate:"required"`
}

// JSONStore keeps records as an indented JSON array in a single file.
type JSONStore struct {
	path string
}

// NewJSON creates a JSON file store.
func NewJSON(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the records file. A missing file yields no records.
func (s *JSONStore) Load(ctx context.Context) ([]track.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []track.Record{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read playlist file")
	}

	var records []track.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "failed to parse playlist file %s", s.path)
	}
	if records == nil {
		records = []track.Record{}
	}
	return records, nil
}

// Save writes the records to a temporary file and renames it over the target.
func (s *JSONStore) Save(ctx context.Context, records []track.Record) error {
	if records == nil {
		records = []track.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode playlist")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create playlist directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write playlist")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "failed to replace playlist file")
	}
	return nil
}

// Close is a no-op.
func (s *JSONStore) Close() error {
	return nil
}
