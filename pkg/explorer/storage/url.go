package storage

import (
	"context"
	"strings"
)

// LoadURL returns the persisted base URL, if any.
func LoadURL(ctx context.Context, s Store) (string, bool, error) {
	val, ok, err := s.GetItem(ctx, URLKey)
	if err != nil || !ok || val == "" {
		return "", false, err
	}
	return val, true, nil
}

// SaveURL persists a trimmed, non-empty base URL. Empty input is ignored.
func SaveURL(ctx context.Context, s Store, url string) (bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return false, nil
	}
	if err := s.SetItem(ctx, URLKey, url); err != nil {
		return false, err
	}
	return true, nil
}
