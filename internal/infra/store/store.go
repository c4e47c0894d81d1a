// Package store persists playlist records between restarts.
package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// Store loads and saves the ordered list of track records.
type Store interface {
	// Load returns the saved records in playlist order.
	// A store that has never been written returns an empty slice.
	Load(ctx context.Context) ([]track.Record, error)
	// Save replaces the stored records.
	Save(ctx context.Context, records []track.Record) error
	// Close releases underlying resources.
	Close() error
}

// New creates a store for the given driver. Settings are decoded into the
// driver's settings struct, defaulted and validated.
func New(driver string, settings map[string]any) (Store, error) {
	zlog.Debug().Msgf("creating store: driver=%s settings=%+v", driver, settings)

	switch driver {
	case "json", "":
		var cfg JSONSettings
		if err := decodeSettings(settings, &cfg); err != nil {
			return nil, err
		}
		return NewJSON(cfg.Path), nil

	case "sqlite":
		var cfg SQLiteSettings
		if err := decodeSettings(settings, &cfg); err != nil {
			return nil, err
		}
		s, err := OpenSQLite(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, errors.Newf("unsupported storage driver: %s", driver)
	}
}

func decodeSettings(settings map[string]any, out any) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return errors.Wrap(err, "failed to decode storage settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "storage settings validation failed")
	}
	return nil
}
