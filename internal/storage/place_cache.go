package storage

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// cachedMatch is the stored form of one resolved place lookup.
type cachedMatch struct {
	Query    string `badgerhold:"key"`
	Match    models.PlaceMatch
	CachedAt time.Time
}

// PlaceCacheStorage caches resolved place matches in Badger, keyed by the
// search query that produced them. Entries expire after the configured TTL
// so stale listings eventually get re-resolved.
type PlaceCacheStorage struct {
	db     *BadgerDB
	ttl    time.Duration
	logger arbor.ILogger
}

// NewPlaceCacheStorage creates a place cache on top of an open Badger store.
func NewPlaceCacheStorage(db *BadgerDB, ttl time.Duration, logger arbor.ILogger) *PlaceCacheStorage {
	return &PlaceCacheStorage{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached match for a query, reporting a miss for unknown
// or expired entries. Expired entries are deleted on read.
func (s *PlaceCacheStorage) Get(ctx context.Context, query string) (*models.PlaceMatch, bool) {
	var entry cachedMatch
	err := s.db.Store().Get(query, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Place cache read failed")
		return nil, false
	}

	if s.ttl > 0 && time.Since(entry.CachedAt) > s.ttl {
		if err := s.db.Store().Delete(query, cachedMatch{}); err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("Failed to delete expired cache entry")
		}
		return nil, false
	}

	return &entry.Match, true
}

// Put stores a resolved match for a query.
func (s *PlaceCacheStorage) Put(ctx context.Context, query string, match models.PlaceMatch) error {
	entry := cachedMatch{
		Query:    query,
		Match:    match,
		CachedAt: time.Now(),
	}
	return s.db.Store().Upsert(query, &entry)
}

// Close closes the underlying store.
func (s *PlaceCacheStorage) Close() error {
	return s.db.Close()
}
