package media

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionSweeper deletes stored image files older than a configured age.
// It operates purely on file modification times and is independent of the
// recognition pipeline and the event store.
type RetentionSweeper struct {
	store      *LocalStorage
	assetTypes []AssetType
	maxAge     time.Duration
}

func NewRetentionSweeper(store *LocalStorage, assetTypes []AssetType, maxAgeDays int) *RetentionSweeper {
	return &RetentionSweeper{
		store:      store,
		assetTypes: assetTypes,
		maxAge:     time.Duration(maxAgeDays) * 24 * time.Hour,
	}
}

// Sweep removes expired files across all configured asset directories and
// returns how many were deleted.
func (s *RetentionSweeper) Sweep() (int, error) {
	cutoff := time.Now().Add(-s.maxAge)
	removed := 0

	for _, assetType := range s.assetTypes {
		dir, err := s.store.getAssetTypeDir(assetType)
		if err != nil {
			return removed, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("retention: failed to read %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				log.Printf("retention: Warning - failed to stat %s: %v", entry.Name(), err)
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("retention: ERROR removing %s: %v", path, err)
				continue
			}
			log.Printf("retention: removed expired file %s", path)
			removed++
		}
	}

	log.Printf("retention: sweep complete, removed %d file(s) older than %s", removed, s.maxAge)
	return removed, nil
}

// Schedule registers the sweep on the given cron runner. The schedule is a
// standard 5-field cron expression (minute hour day-of-month month day-of-week).
func (s *RetentionSweeper) Schedule(c *cron.Cron, schedule string) error {
	if schedule == "" {
		log.Println("retention: no schedule configured, periodic sweep disabled")
		return nil
	}
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.Sweep(); err != nil {
			log.Printf("retention: scheduled sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("retention: invalid schedule %q: %w", schedule, err)
	}
	log.Printf("retention: sweep scheduled (cron: %s)", schedule)
	return nil
}
