// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package store persists ratings and catalog metadata in BadgerDB.
//
// Ratings are written twice, once under a user-major key and once under an
// item-major key, so that both RatingsByUsers and RatingsByItems are prefix
// scans. IDs are encoded big-endian so prefix iteration returns them in
// ascending order.
//
// Key layout:
//
//	ru/<user>/<item>  rating JSON
//	ri/<item>/<user>  rating JSON
//	mv/<id>           movie JSON
//	co/<id>           collection JSON
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("store closed")

var (
	prefixUserRating = []byte("ru/")
	prefixItemRating = []byte("ri/")
	prefixMovie      = []byte("mv/")
	prefixCollection = []byte("co/")
)

// Config configures the Badger store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps everything in RAM; used by tests and one-shot CLI runs.
	InMemory bool `koanf:"in_memory"`

	SyncWrites  bool `koanf:"sync_writes"`
	Compression bool `koanf:"compression"`
}

// Badger is a ratings.Store and catalog.Source backed by BadgerDB.
type Badger struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the database described by cfg.
func Open(cfg Config) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.Compression {
		opts.Compression = options.Snappy
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("dataset store opened")
	return &Badger{db: db}, nil
}

// Close releases the database.
func (s *Badger) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Ping reports ErrClosed after Close and otherwise opens a read transaction.
func (s *Badger) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.view(func(*badger.Txn) error { return nil })
}

func (s *Badger) view(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.View(fn)
}

// PutRatings stores ratings. A rating for an existing (user, item) pair
// replaces the old one.
func (s *Badger) PutRatings(ctx context.Context, records []models.Rating) error {
	return s.batch(ctx, len(records), func(wb *badger.WriteBatch, i int) error {
		r := records[i]
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal rating: %w", err)
		}
		if err := wb.Set(pairKey(prefixUserRating, r.UserID, r.ItemID), data); err != nil {
			return err
		}
		return wb.Set(pairKey(prefixItemRating, r.ItemID, r.UserID), data)
	})
}

// PutMovies stores catalog movies.
func (s *Badger) PutMovies(ctx context.Context, movies []models.Movie) error {
	return s.batch(ctx, len(movies), func(wb *badger.WriteBatch, i int) error {
		data, err := json.Marshal(movies[i])
		if err != nil {
			return fmt.Errorf("marshal movie %d: %w", movies[i].ID, err)
		}
		return wb.Set(idKey(prefixMovie, movies[i].ID), data)
	})
}

// PutCollections stores franchise collections.
func (s *Badger) PutCollections(ctx context.Context, cols []models.Collection) error {
	return s.batch(ctx, len(cols), func(wb *badger.WriteBatch, i int) error {
		data, err := json.Marshal(cols[i])
		if err != nil {
			return fmt.Errorf("marshal collection %d: %w", cols[i].ID, err)
		}
		return wb.Set(idKey(prefixCollection, cols[i].ID), data)
	})
}

func (s *Badger) batch(ctx context.Context, n int, set func(*badger.WriteBatch, int) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for i := 0; i < n; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := set(wb, i); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}
	return nil
}

// RatingsByUsers implements ratings.Store.
func (s *Badger) RatingsByUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error) {
	return s.scanRatings(ctx, prefixUserRating, userIDs)
}

// RatingsByItems implements ratings.Store.
func (s *Badger) RatingsByItems(ctx context.Context, itemIDs []int64) ([]models.Rating, error) {
	return s.scanRatings(ctx, prefixItemRating, itemIDs)
}

func (s *Badger) scanRatings(ctx context.Context, prefix []byte, ids []int64) ([]models.Rating, error) {
	var out []models.Rating
	err := s.view(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := idKey(prefix, id)
			for it.Seek(p); it.ValidForPrefix(p); it.Next() {
				var r models.Rating
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &r)
				}); err != nil {
					return fmt.Errorf("decode rating: %w", err)
				}
				out = append(out, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan ratings: %w", err)
	}
	return out, nil
}

// AllRatings returns every stored rating in user-major order. It is used
// for offline model training.
func (s *Badger) AllRatings(ctx context.Context) ([]models.Rating, error) {
	var out []models.Rating
	err := s.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixUserRating
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if len(out)%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			var r models.Rating
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode rating: %w", err)
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("all ratings: %w", err)
	}
	return out, nil
}

// ReviewCounts implements ratings.Store. Only keys are read.
func (s *Badger) ReviewCounts(ctx context.Context) (map[int64]int, error) {
	counts := make(map[int64]int)
	err := s.keys(ctx, prefixUserRating, func(key []byte) {
		counts[leadingID(key, prefixUserRating)]++
	})
	if err != nil {
		return nil, fmt.Errorf("review counts: %w", err)
	}
	return counts, nil
}

// AllItemIDs implements ratings.Store. IDs are ascending.
func (s *Badger) AllItemIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.keys(ctx, prefixItemRating, func(key []byte) {
		id := leadingID(key, prefixItemRating)
		if len(ids) == 0 || ids[len(ids)-1] != id {
			ids = append(ids, id)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("item ids: %w", err)
	}
	return ids, nil
}

// MovieIDs implements catalog.Lister.
func (s *Badger) MovieIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.keys(ctx, prefixMovie, func(key []byte) {
		ids = append(ids, leadingID(key, prefixMovie))
	})
	if err != nil {
		return nil, fmt.Errorf("movie ids: %w", err)
	}
	return ids, nil
}

// AllMovies implements catalog.Scanner. Movies are in ascending ID order.
func (s *Badger) AllMovies(ctx context.Context) ([]models.Movie, error) {
	var out []models.Movie
	err := s.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixMovie
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if len(out)%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			var m models.Movie
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			}); err != nil {
				return fmt.Errorf("decode movie: %w", err)
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("all movies: %w", err)
	}
	return out, nil
}

func (s *Badger) keys(ctx context.Context, prefix []byte, fn func(key []byte)) error {
	return s.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		n := 0
		for it.Rewind(); it.Valid(); it.Next() {
			if n%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			n++
			fn(it.Item().Key())
		}
		return nil
	})
}

// Movies implements catalog.Source.
func (s *Badger) Movies(ctx context.Context, ids []int64) (map[int64]models.Movie, error) {
	out := make(map[int64]models.Movie, len(ids))
	err := getEach(ctx, s, prefixMovie, ids, func(id int64, val []byte) error {
		var m models.Movie
		if err := json.Unmarshal(val, &m); err != nil {
			return err
		}
		out[id] = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	return out, nil
}

// Collections implements catalog.Source.
func (s *Badger) Collections(ctx context.Context, ids []int64) (map[int64]models.Collection, error) {
	out := make(map[int64]models.Collection, len(ids))
	err := getEach(ctx, s, prefixCollection, ids, func(id int64, val []byte) error {
		var c models.Collection
		if err := json.Unmarshal(val, &c); err != nil {
			return err
		}
		out[id] = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}
	return out, nil
}

func getEach(ctx context.Context, s *Badger, prefix []byte, ids []int64, decode func(int64, []byte) error) error {
	return s.view(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := txn.Get(idKey(prefix, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error { return decode(id, val) }); err != nil {
				return err
			}
		}
		return nil
	})
}

// RunGC reclaims value log space. Badger returns ErrNoRewrite when there is
// nothing to collect, which is not an error here.
func (s *Badger) RunGC(ratio float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return err
	}
	return nil
}

func idKey(prefix []byte, id int64) []byte {
	k := make([]byte, len(prefix)+8)
	copy(k, prefix)
	binary.BigEndian.PutUint64(k[len(prefix):], uint64(id))
	return k
}

func pairKey(prefix []byte, a, b int64) []byte {
	k := make([]byte, len(prefix)+16)
	copy(k, prefix)
	binary.BigEndian.PutUint64(k[len(prefix):], uint64(a))
	binary.BigEndian.PutUint64(k[len(prefix)+8:], uint64(b))
	return k
}

func leadingID(key, prefix []byte) int64 {
	return int64(binary.BigEndian.Uint64(key[len(prefix) : len(prefix)+8]))
}
