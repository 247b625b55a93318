package gate

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/models"
)

const redisSnapshotKey = "gate:snapshot"

// Source yields the current gate table. The collaborator service
// satisfies this, so the gate and the management API read the same
// repository — one source of truth.
type Source interface {
	GateEntries(ctx context.Context) ([]models.GateEntry, error)
}

// Snapshot is an immutable view of the gate table, indexed for the two
// ways a request can address an area: path slug and host subdomain.
type Snapshot struct {
	bySlug      map[string]models.GateEntry
	bySubdomain map[string]models.GateEntry
}

func newSnapshot(entries []models.GateEntry) *Snapshot {
	s := &Snapshot{
		bySlug:      make(map[string]models.GateEntry, len(entries)),
		bySubdomain: make(map[string]models.GateEntry),
	}
	for _, e := range entries {
		s.bySlug[e.Slug] = e
		if e.Subdomain != "" {
			s.bySubdomain[e.Subdomain] = e
		}
	}
	return s
}

// LookupPath matches the first path segment against protected areas.
func (s *Snapshot) LookupPath(path string) (models.GateEntry, bool) {
	seg := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	e, ok := s.bySlug[seg]
	return e, ok
}

// LookupHost matches the first host label against subdomain-addressed
// areas ("ana.elijahbrown.info" → area "ana").
func (s *Snapshot) LookupHost(host string) (models.GateEntry, bool) {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	label, _, found := strings.Cut(host, ".")
	if !found {
		return models.GateEntry{}, false
	}
	e, ok := s.bySubdomain[label]
	return e, ok
}

// Provider hands out the snapshot the gate evaluates against, refreshed
// on a TTL. Resolution order: fresh in-process copy, then Redis (shared
// across instances when configured), then the repository — whose result
// is written back to both layers. A repository failure falls back to the
// last in-process copy, stale or not, so the gate keeps working through
// a brief storage outage.
type Provider struct {
	source Source
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	local   *Snapshot
	expires time.Time
}

// NewProvider builds a snapshot provider. cache may be nil.
func NewProvider(source Source, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Provider {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Provider{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (p *Provider) Get(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.local != nil && time.Now().Before(p.expires) {
		return p.local, nil
	}

	entries, err := p.load(ctx)
	if err != nil {
		if p.local != nil {
			p.logger.Warn("gate snapshot refresh failed, serving previous copy", zap.Error(err))
			return p.local, nil
		}
		return nil, err
	}

	p.local = newSnapshot(entries)
	p.expires = time.Now().Add(p.ttl)
	return p.local, nil
}

// Invalidate drops the in-process copy so the next Get refreshes from
// the cache or the repository. Call after a write that must be visible
// to the gate before the TTL runs out.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.local = nil
	p.expires = time.Time{}
}

func (p *Provider) load(ctx context.Context) ([]models.GateEntry, error) {
	if p.cache != nil {
		raw, err := p.cache.Get(ctx, redisSnapshotKey).Bytes()
		if err == nil {
			var entries []models.GateEntry
			if err := json.Unmarshal(raw, &entries); err == nil {
				return entries, nil
			}
			p.logger.Warn("discarding malformed cached gate snapshot")
		} else if err != redis.Nil {
			p.logger.Warn("gate snapshot cache read failed", zap.Error(err))
		}
	}

	entries, err := p.source.GateEntries(ctx)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := p.cache.Set(ctx, redisSnapshotKey, raw, p.ttl).Err(); err != nil {
				p.logger.Warn("gate snapshot cache write failed", zap.Error(err))
			}
		}
	}
	return entries, nil
}
