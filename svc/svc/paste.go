// Package svc orchestrates the paste record lifecycle against the
// key-value backing store: slug allocation, expiration resolution,
// lazy expiry deletion, and password gating.
package svc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"slugbin/cfg"
	"slugbin/metrics"
	"slugbin/pkg/domain"
	"slugbin/svc/auth"
	"slugbin/svc/cache"
	"slugbin/svc/codec"
	"slugbin/svc/expiry"
	"slugbin/svc/kv"
	"slugbin/svc/slug"
	"slugbin/svc/util"
)

type Paste struct {
	store kv.Store
	lru   *cache.LRU
	guard *auth.Guard
	slugs *slug.Allocator
	cfg   *cfg.Cfg
}

func NewPaste(store kv.Store, lru *cache.LRU, guard *auth.Guard, slugs *slug.Allocator, c *cfg.Cfg) *Paste {
	if store == nil || lru == nil || guard == nil || slugs == nil || c == nil {
		panic("paste service: nil dependency (store, lru, guard, slugs, or cfg)")
	}
	return &Paste{store: store, lru: lru, guard: guard, slugs: slugs, cfg: c}
}

// Guard exposes the access guard so the HTTP layer enforces API auth
// with the same instance the service uses for paste passwords.
func (p *Paste) Guard() *auth.Guard { return p.guard }

// Create builds and persists a record, overwriting any previous record
// at the same slug. The expiration expression is resolved against the
// caller's timezone before anything is written; a bad expression means
// nothing is persisted.
func (p *Paste) Create(ctx context.Context, params domain.CreateParams) (*domain.CreateResult, error) {
	if params.Text == "" {
		return nil, domain.ErrTextRequired
	}
	if int64(len(params.Text)) > p.cfg.MaxPasteSize {
		return nil, domain.ErrPasteTooLarge
	}
	now := time.Now().UTC()
	loc := expiry.LoadZone(params.Timezone, p.cfg.DefaultTimezone)

	var expiresAt *time.Time
	var secsLeft *int64
	var formatted *string
	if params.Expiration != "" {
		at, err := expiry.Resolve(params.Expiration, loc)
		if err != nil {
			return nil, domain.ErrInvalidExpiration
		}
		secs := expiry.SecondsRemaining(at, now)
		if secs <= 0 {
			return nil, domain.ErrInvalidExpiration
		}
		display := expiry.FormatDisplay(at, loc)
		expiresAt, secsLeft, formatted = &at, &secs, &display
	}

	id, err := p.slugs.Allocate(params.Slug)
	if err != nil {
		return nil, domain.ErrInvalidSlug
	}

	rec := &domain.PasteRecord{
		Slug: id,
		Text: codec.SanitizeText(params.Text),
		Metadata: domain.Metadata{
			CreatedAt: now,
		},
	}
	rec.Metadata.ExpiresAt = expiresAt
	if params.Password != "" {
		pw := params.Password
		rec.Metadata.Password = &pw
	}

	data, err := codec.Encode(rec)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	var opts kv.PutOptions
	if secsLeft != nil {
		// Native store expiry is an optimization; the expiresAt check
		// on read stays authoritative and the two agree by construction.
		opts.TTL = time.Duration(*secsLeft) * time.Second
	}
	if err := p.store.Put(ctx, id, data, opts); err != nil {
		return nil, errors.Wrap(err, "put record")
	}
	p.lru.Set(rec)
	metrics.PasteCreated.Inc()
	return &domain.CreateResult{
		Slug:                id,
		ExpirationInSeconds: secsLeft,
		FormattedExpiration: formatted,
	}, nil
}

// Read fetches a record and applies the expiry and password gates.
// Wall clock is sampled once so a single call sees a single consistent
// time.
func (p *Paste) Read(ctx context.Context, id, credential string) (*domain.ReadResult, error) {
	now := time.Now().UTC()

	rec := p.lru.Get(id)
	if rec != nil {
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()
		data, err := p.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kv.ErrKeyNotFound) {
				return nil, domain.ErrPasteNotFound
			}
			return nil, errors.Wrap(err, "get record")
		}
		rec, err = codec.Decode(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode record")
		}
		rec.Slug = id
	}

	if rec.Metadata.Expired(now) {
		p.reapExpired(ctx, id)
		return nil, domain.ErrPasteExpired
	}
	if err := p.guard.CheckPasteAuth(rec.Metadata, credential); err != nil {
		return nil, err
	}
	p.lru.Set(rec)
	metrics.PasteRetrieved.Inc()

	res := &domain.ReadResult{Text: rec.Text, Metadata: rec.Metadata}
	if rec.Metadata.ExpiresAt != nil {
		secs := expiry.SecondsRemaining(*rec.Metadata.ExpiresAt, now)
		res.SecondsRemaining = &secs
	}
	return res, nil
}

// List enumerates every stored slug, fetching records concurrently and
// joining before returning. Expired records are reaped and excluded;
// one bad key never aborts the rest of the enumeration.
func (p *Paste) List(ctx context.Context) ([]domain.ListEntry, error) {
	now := time.Now().UTC()
	started := time.Now()
	defer func() { metrics.ListDuration.Observe(time.Since(started).Seconds()) }()

	keys, err := p.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list keys")
	}

	results := make([]*domain.ListEntry, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.ListConcurrency)
	for i, key := range keys {
		g.Go(func() error {
			data, err := p.store.Get(gctx, key)
			if err != nil {
				if !errors.Is(err, kv.ErrKeyNotFound) {
					util.Warn().Err(err).Str("slug", key).Msg("fetch during list failed, skipping")
				}
				return nil
			}
			rec, err := codec.Decode(data)
			if err != nil {
				util.Warn().Err(err).Str("slug", key).Msg("undecodable record during list, skipping")
				return nil
			}
			if rec.Metadata.Expired(now) {
				p.reapExpired(gctx, key)
				return nil
			}
			results[i] = &domain.ListEntry{Slug: key, Metadata: rec.Metadata}
			return nil
		})
	}
	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()

	entries := make([]domain.ListEntry, 0, len(keys))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

// Delete removes a record unconditionally. Absent slugs are a success.
func (p *Paste) Delete(ctx context.Context, id string) error {
	if err := p.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete record")
	}
	p.lru.Delete(id)
	metrics.PasteDeleted.Inc()
	return nil
}

// reapExpired is the lazy-expiration side effect. Cleanup failure is
// logged, never escalated: the caller already knows the record is gone.
func (p *Paste) reapExpired(ctx context.Context, id string) {
	p.lru.Delete(id)
	if err := p.store.Delete(ctx, id); err != nil {
		util.Warn().Err(err).Str("slug", id).Msg("failed to reap expired paste")
		return
	}
	metrics.ExpiredReaped.Inc()
}
