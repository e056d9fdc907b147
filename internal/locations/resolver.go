// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package locations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/roomrank/internal/cache"
	"github.com/tomtom215/roomrank/internal/config"
	"github.com/tomtom215/roomrank/internal/dataset"
	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/metrics"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// Cache tiers and results reported to metrics.
const (
	tierMemory     = "memory"
	tierPersistent = "persistent"
	tierOrigin     = "origin"

	resultHit      = "hit"
	resultMiss     = "miss"
	resultNegative = "negative"
	resultError    = "error"
)

const keyPrefix = "place:"

// Options configures a CachingResolver.
type Options struct {
	CacheSize   int
	TTL         time.Duration
	NegativeTTL time.Duration
}

// OptionsFromConfig converts the locations configuration section.
func OptionsFromConfig(cfg *config.LocationsConfig) Options {
	return Options{
		CacheSize:   cfg.CacheSize,
		TTL:         cfg.CacheTTL,
		NegativeTTL: cfg.NegativeTTL,
	}
}

// entry is the cached outcome of one lookup. Found=false records a miss.
type entry struct {
	Place recommend.Place `json:"place"`
	Found bool            `json:"found"`
}

// CachingResolver implements recommend.LocationResolver on top of another
// resolver. It is safe for concurrent use.
type CachingResolver struct {
	next   recommend.LocationResolver
	memory *cache.LRU[entry]
	db     *badger.DB
	opts   Options
}

// NewCachingResolver wraps next. db may be nil, in which case only the
// memory tier is used. The resolver does not close db.
func NewCachingResolver(next recommend.LocationResolver, db *badger.DB, opts Options) *CachingResolver {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.NegativeTTL <= 0 {
		opts.NegativeTTL = 5 * time.Minute
	}
	return &CachingResolver{
		next:   next,
		memory: cache.NewLRU[entry](opts.CacheSize, opts.TTL),
		db:     db,
		opts:   opts,
	}
}

// OpenBadger opens the persistent tier at path. An empty path opens an
// in-memory database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for locations: %w", err)
	}
	return db, nil
}

// Resolve implements recommend.LocationResolver.
func (r *CachingResolver) Resolve(ctx context.Context, name string) (recommend.Place, bool, error) {
	key := dataset.NormalizeName(name)
	if key == "" {
		return recommend.Place{}, false, nil
	}

	if e, ok := r.memory.Get(key); ok {
		metrics.RecordLocationLookup(tierMemory, hitResult(e))
		return e.Place, e.Found, nil
	}
	metrics.RecordLocationLookup(tierMemory, resultMiss)

	if r.db != nil {
		e, ttl, ok, err := r.loadPersistent(key)
		switch {
		case err != nil:
			// The persistent tier is an optimization; fall through to the origin.
			metrics.RecordLocationLookup(tierPersistent, resultError)
			logging.Warn().Err(err).Str("key", key).Msg("Location cache read failed")
		case ok:
			metrics.RecordLocationLookup(tierPersistent, hitResult(e))
			r.memory.AddWithTTL(key, e, ttl)
			return e.Place, e.Found, nil
		default:
			metrics.RecordLocationLookup(tierPersistent, resultMiss)
		}
	}

	place, found, err := r.next.Resolve(ctx, name)
	if err != nil {
		metrics.RecordLocationLookup(tierOrigin, resultError)
		return recommend.Place{}, false, err
	}
	e := entry{Place: place, Found: found}
	metrics.RecordLocationLookup(tierOrigin, hitResult(e))

	ttl := r.opts.TTL
	if !found {
		ttl = r.opts.NegativeTTL
	}
	r.memory.AddWithTTL(key, e, ttl)
	if r.db != nil {
		if err := r.storePersistent(key, e, ttl); err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("Location cache write failed")
		}
	}
	return place, found, nil
}

// Invalidate drops every cached lookup. It is called after a dataset
// reload, when places may have changed.
func (r *CachingResolver) Invalidate() error {
	r.memory.Clear()
	if r.db == nil {
		return nil
	}
	if err := r.db.DropPrefix([]byte(keyPrefix)); err != nil {
		return fmt.Errorf("drop location cache: %w", err)
	}
	return nil
}

// Len returns the number of entries in the memory tier.
func (r *CachingResolver) Len() int {
	return r.memory.Len()
}

func (r *CachingResolver) loadPersistent(key string) (entry, time.Duration, bool, error) {
	var (
		e     entry
		ttl   time.Duration
		found bool
	)
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if exp := item.ExpiresAt(); exp > 0 {
			ttl = time.Until(time.Unix(int64(exp), 0))
			if ttl <= 0 {
				return nil
			}
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		}); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return entry{}, 0, false, err
	}
	if ttl <= 0 {
		ttl = r.opts.TTL
	}
	return e, ttl, found, nil
}

func (r *CachingResolver) storePersistent(key string, e entry, ttl time.Duration) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(keyPrefix+key), data).WithTTL(ttl))
	})
}

func hitResult(e entry) string {
	if e.Found {
		return resultHit
	}
	return resultNegative
}

var _ recommend.LocationResolver = (*CachingResolver)(nil)
