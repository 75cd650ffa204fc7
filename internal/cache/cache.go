package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sadopc/fitgrid/internal/log"
)

// ErrNoCachedData is returned when a fetch cannot reach the network and no
// prior successful fetch exists for the key.
var ErrNoCachedData = errors.New("cache: no cached data available")

// DefaultTTL is the freshness window shared by every resource type.
const DefaultTTL = time.Hour

// KV is the persistent key-value store the cache reads and writes through.
// Get returns (nil, nil) when the key is absent. Each key's value is
// replaced wholesale, so no locking is needed around individual entries.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	RemoveMany(keys []string) error
	AllKeys() ([]string, error)
}

// Origin tells a caller where a fetched value came from.
type Origin int

const (
	// OriginFresh means the value came straight from a successful remote fetch.
	OriginFresh Origin = iota
	// OriginCached means the value came from the store within its TTL.
	OriginCached
	// OriginStale means the value came from the store past its TTL,
	// served because nothing fresher could be obtained.
	OriginStale
)

func (o Origin) String() string {
	switch o {
	case OriginCached:
		return "cached"
	case OriginStale:
		return "stale"
	default:
		return "fresh"
	}
}

// Cache is a read-through cache over a persistent key-value store. On every
// fetch it prefers a fresh remote value when the network is reachable, and
// degrades to the last stored value (even past its TTL) when it is not.
type Cache struct {
	kv  KV
	now func() time.Time
}

func New(kv KV) *Cache {
	return &Cache{kv: kv, now: time.Now}
}

// NewWithClock injects the clock used for TTL checks and entry timestamps.
func NewWithClock(kv KV, now func() time.Time) *Cache {
	return &Cache{kv: kv, now: now}
}

// entry is the stored envelope: the payload plus the write timestamp.
// It is JSON so a corrupt or foreign record is detectable and can be
// treated as absent until the next successful fetch overwrites it.
type entry struct {
	Value    json.RawMessage `json:"value"`
	StoredAt int64           `json:"storedAtEpochMillis"`
}

// Fetch resolves a value for key: remote when reachable, stored otherwise.
// See FetchDetail for the exact degradation order.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, online func(context.Context) bool, remote func(context.Context) (T, error)) (T, error) {
	v, _, err := FetchDetail(ctx, c, key, ttl, online, remote)
	return v, err
}

// FetchDetail is Fetch plus the serve origin, so callers can tell the user
// they are looking at saved data.
//
//   - Offline: a stored entry is returned whatever its age (stale beats
//     nothing); with no stored entry the call fails with ErrNoCachedData.
//   - Online: the remote value is fetched, persisted, and returned. If the
//     remote fetch fails and a stored entry exists, that entry is returned
//     instead; with no stored entry the remote error propagates verbatim.
func FetchDetail[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, online func(context.Context) bool, remote func(context.Context) (T, error)) (T, Origin, error) {
	var zero T

	if !online(ctx) {
		v, origin, ok := readStored[T](c, key, ttl)
		if !ok {
			return zero, 0, ErrNoCachedData
		}
		log.Debug("cache offline hit", "key", key, "origin", origin.String())
		return v, origin, nil
	}

	v, err := remote(ctx)
	if err != nil {
		if sv, origin, ok := readStored[T](c, key, ttl); ok {
			log.Error("remote fetch failed, serving stored value", err, "key", key, "origin", origin.String())
			return sv, origin, nil
		}
		return zero, 0, err
	}

	c.put(key, v)
	return v, OriginFresh, nil
}

// readStored loads and decodes the entry for key. A missing key, a read
// error, or a malformed envelope all count as absent.
func readStored[T any](c *Cache, key string, ttl time.Duration) (T, Origin, bool) {
	var zero T

	raw, err := c.kv.Get(key)
	if err != nil || raw == nil {
		return zero, 0, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Value == nil {
		log.Debug("malformed cache entry, treating as absent", "key", key)
		return zero, 0, false
	}

	var v T
	if err := json.Unmarshal(e.Value, &v); err != nil {
		log.Debug("malformed cache payload, treating as absent", "key", key)
		return zero, 0, false
	}

	age := c.now().UnixMilli() - e.StoredAt
	if age <= ttl.Milliseconds() {
		return v, OriginCached, true
	}
	return v, OriginStale, true
}

// put persists a freshly fetched value. A write failure is logged but does
// not fail the fetch; the caller still gets the fresh value.
func (c *Cache) put(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Error("cache encode failed", err, "key", key)
		return
	}
	data, err := json.Marshal(entry{Value: raw, StoredAt: c.now().UnixMilli()})
	if err != nil {
		log.Error("cache envelope encode failed", err, "key", key)
		return
	}
	if err := c.kv.Set(key, data); err != nil {
		log.Error("cache write failed", err, "key", key)
	}
}

// Invalidate removes the entry for a single key.
func (c *Cache) Invalidate(key string) error {
	return c.kv.Remove(key)
}

// Clear removes every stored entry, e.g. on sign-out.
func (c *Cache) Clear() error {
	keys, err := c.kv.AllKeys()
	if err != nil {
		return err
	}
	return c.kv.RemoveMany(keys)
}
