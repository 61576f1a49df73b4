// Package store persists raw bit-field values in Redis, keyed by an arbitrary
// subject string. The only persisted artifact is the raw uint64; named-flag
// semantics stay client-side and are rebuilt on load through
// [goFlags.Registry.FromValue], so values written against an older catalog
// revision round-trip with their unknown bits intact.
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	goFlags "github.com/MrEthical07/goFlags"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound reports that no value is stored for the subject.
	ErrNotFound = errors.New("flag value not found")
	// ErrUnavailable reports a Redis failure.
	ErrUnavailable = errors.New("flag store unavailable")
	// ErrCorruptRecord reports a stored record of the wrong size.
	ErrCorruptRecord = errors.New("flag value record malformed")
)

const recordSize = 8

// Store persists raw bit-field values under a key prefix.
// All methods are safe for concurrent use.
type Store struct {
	redis  redis.UniversalClient
	prefix string

	saves  atomic.Uint64
	loads  atomic.Uint64
	misses atomic.Uint64
}

// NewStore creates a store over the given client. An empty prefix defaults
// to "bf".
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "bf"
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) key(subject string) string {
	return s.prefix + ":" + subject
}

// Save persists the raw value of field under subject. ttl <= 0 stores the
// value without expiry.
func (s *Store) Save(ctx context.Context, subject string, field *goFlags.BitField, ttl time.Duration) error {
	var buf [recordSize]byte
	binary.BigEndian.PutUint64(buf[:], field.Value())

	if ttl < 0 {
		ttl = 0
	}
	if err := s.redis.Set(ctx, s.key(subject), buf[:], ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.saves.Add(1)
	return nil
}

// Load rebuilds the subject's bit field against the given registry. The
// stored value is not validated against the catalog; unknown bits are
// preserved.
func (s *Store) Load(ctx context.Context, subject string, registry *goFlags.Registry) (*goFlags.BitField, error) {
	data, err := s.redis.Get(ctx, s.key(subject)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.misses.Add(1)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(data) != recordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptRecord, len(data))
	}

	s.loads.Add(1)
	return registry.FromValue(binary.BigEndian.Uint64(data)), nil
}

// Delete removes the subject's value. Deleting a missing subject is not an
// error.
func (s *Store) Delete(ctx context.Context, subject string) error {
	if err := s.redis.Del(ctx, s.key(subject)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// MetricsSnapshot is a point-in-time copy of the store's operation counters.
type MetricsSnapshot struct {
	Saves  uint64
	Loads  uint64
	Misses uint64
}

// Metrics returns the current operation counters.
func (s *Store) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		Saves:  s.saves.Load(),
		Loads:  s.loads.Load(),
		Misses: s.misses.Load(),
	}
}
