package events

import (
	"encoding/json"
	"time"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

// CleanupOldEvents deletes events stamped before the given time together
// with their index entries. Undecodable entries are always removed.
func (s *Storage) CleanupOldEvents(before time.Time) error {
	allItems, err := s.db.List(keyPrefix)
	if err != nil {
		return apperrors.WrapStorage(err, "list events for cleanup")
	}

	var stale []string
	processed := 0
	for key, data := range allItems {
		if isIndexKey(key) {
			continue
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			stale = append(stale, key)
			continue
		}
		if event.Timestamp.Before(before) {
			stale = append(stale, keys(event)...)
			processed++
		}
	}

	deleted := 0
	for i := 0; i < len(stale); i += DefaultBatchSize {
		end := min(i+DefaultBatchSize, len(stale))
		batch := stale[i:end]

		if err := s.db.BatchDelete(batch); err != nil {
			s.logger.Error(err, "failed to batch delete events", "count", len(batch))
			for _, key := range batch {
				if err := s.db.Delete(key); err != nil {
					if isIndexKey(key) {
						s.logger.V(1).Info("failed to delete event index entry (non-critical)", "key", key, "error", err)
					} else {
						s.logger.Error(err, "failed to delete event", "key", key)
					}
					continue
				}
				deleted++
			}
			continue
		}
		deleted += len(batch)
	}

	s.logger.Info("Cleaned up old events", "events", processed, "keysDeleted", deleted, "before", before)
	return nil
}
