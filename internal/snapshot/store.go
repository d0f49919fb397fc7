package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Jose-Ibz/VIM/internal/domain"
	"github.com/Jose-Ibz/VIM/internal/export"
	"github.com/Jose-Ibz/VIM/internal/storage"
)

// Store writes the monthly snapshot of the normalized dataset: one
// immutable file per calendar month, named by year-month, optionally
// mirrored to an S3-compatible bucket. Snapshots are audit artifacts; the
// engine never reads them back.
type Store struct {
	dir    string
	mirror storage.ObjectStorage
}

// NewStore builds a snapshot store rooted at dir. The mirror may be nil.
func NewStore(dir string, mirror storage.ObjectStorage) *Store {
	return &Store{dir: dir, mirror: mirror}
}

// Write persists the snapshot for asOf's calendar month unless one already
// exists. It returns the snapshot path and whether a new file was written.
// A mirror failure is logged but does not fail the snapshot: the local file
// is the system of record.
func (s *Store) Write(ctx context.Context, asOf time.Time, records []domain.ItemRecord, salesColumns []string) (string, bool, error) {
	name := asOf.Format("2006-01") + ".csv"
	path := filepath.Join(s.dir, name)

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", false, fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}
	if err := export.WriteRecordsCSV(f, records, salesColumns); err != nil {
		f.Close()
		os.Remove(path)
		return "", false, fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", false, fmt.Errorf("failed to close snapshot %s: %w", path, err)
	}

	if s.mirror != nil {
		if err := s.uploadMirror(ctx, path, name); err != nil {
			log.Warn().Err(err).Str("snapshot", name).Msg("snapshot mirror upload failed")
		}
	}

	return path, true, nil
}

// IsMonthEnd reports whether asOf is the last day of its month, the
// default trigger for taking a snapshot.
func IsMonthEnd(asOf time.Time) bool {
	return asOf.AddDate(0, 0, 1).Month() != asOf.Month()
}

func (s *Store) uploadMirror(ctx context.Context, path, key string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot for mirror: %w", err)
	}
	return s.mirror.UploadObject(ctx, key, data)
}
