package dircache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores the current Snapshot. Get reports a miss with ok=false;
// errors are absorbed so a broken cache only costs a database read.
type Cache interface {
	Get(ctx context.Context) (*Snapshot, bool)
	Put(ctx context.Context, s *Snapshot)
	Invalidate(ctx context.Context)
}

// Nop never caches.
type Nop struct{}

func (Nop) Get(context.Context) (*Snapshot, bool) { return nil, false }
func (Nop) Put(context.Context, *Snapshot)        {}
func (Nop) Invalidate(context.Context)            {}

// Memory caches the snapshot in process for ttl.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	snap    *Snapshot
	expires time.Time
	now     func() time.Time
}

// NewMemory returns an in-process cache. A ttl <= 0 keeps the snapshot
// until the next Invalidate.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (m *Memory) Get(context.Context) (*Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil, false
	}
	if m.ttl > 0 && !m.now().Before(m.expires) {
		return nil, false
	}
	return m.snap, true
}

func (m *Memory) Put(_ context.Context, s *Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s
	m.expires = m.now().Add(m.ttl)
}

func (m *Memory) Invalidate(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
}

// DefaultRedisKey is where Redis stores the serialized snapshot.
const DefaultRedisKey = "workhub:directory:snapshot"

// Redis shares the snapshot between instances, so a write on one instance
// invalidates the cache for all of them.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedis wraps an already connected client.
func NewRedis(client *redis.Client, ttl time.Duration, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, key: DefaultRedisKey, ttl: ttl, log: log}
}

func (r *Redis) Get(ctx context.Context) (*Snapshot, bool) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.log.Warn("directory cache read failed", zap.Error(err))
		return nil, false
	}
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		r.log.Warn("directory cache entry is corrupt", zap.Error(err))
		return nil, false
	}
	return NewSnapshot(w.Areas, w.Positions), true
}

func (r *Redis) Put(ctx context.Context, s *Snapshot) {
	b, err := json.Marshal(s.toWire())
	if err != nil {
		r.log.Warn("directory cache encode failed", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.key, b, r.ttl).Err(); err != nil {
		r.log.Warn("directory cache write failed", zap.Error(err))
	}
}

func (r *Redis) Invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		r.log.Warn("directory cache invalidate failed", zap.Error(err))
	}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
