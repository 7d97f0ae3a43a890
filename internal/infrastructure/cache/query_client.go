// Package cache keeps the read views of remote collections in memory and lets
// mutations write to them optimistically.
//
// Every entry carries a version that changes on each write. Optimistic writers
// take a Token with Snapshot, patch the entries with Apply and either Commit or
// Rollback the token once the remote call settles.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoFetcher      = errors.New("no fetcher registered for collection")
	ErrFetchCancelled = errors.New("fetch cancelled")
	ErrTokenSettled   = errors.New("token already settled")
)

// Fetcher loads the value of a key from the remote store.
type Fetcher func(ctx context.Context, key QueryKey) (any, error)

// maxFetchAttempts bounds the reloads of a key whose load was cancelled while
// nothing was cached for it.
const maxFetchAttempts = 3

// DefaultLoadTimeout bounds a shared load once it is detached from its callers.
const DefaultLoadTimeout = 30 * time.Second

// Patch computes the next value of an entry. It must not modify current in place:
// the previous value is kept by the token for rollback.
type Patch func(key QueryKey, current any) (next any, changed bool, err error)

// Merge combines the value recorded by a token with the live value of an entry.
type Merge func(key QueryKey, saved, current any) (next any, changed bool)

type Entry struct {
	Key  QueryKey
	Data any
}

type EntryState struct {
	Key           QueryKey
	Version       uint64
	HasData       bool
	Stale         bool
	Fetching      bool
	Invalidations int
	UpdatedAt     time.Time
}

type entry struct {
	key           QueryKey
	data          any
	hasData       bool
	version       uint64
	stale         bool
	invalidations int
	updatedAt     time.Time

	fetchSeq uint64
	cancel   context.CancelFunc
}

type savedEntry struct {
	key     QueryKey
	data    any
	hasData bool
	version uint64
}

// Token is the rollback point of one optimistic write.
type Token struct {
	id      uint64
	prefix  QueryKey
	saved   []savedEntry
	settled bool
}

func (t *Token) Prefix() QueryKey { return t.prefix }

// Keys lists the entries covered by the token.
func (t *Token) Keys() []QueryKey {
	out := make([]QueryKey, 0, len(t.saved))
	for _, s := range t.saved {
		out = append(out, s.key)
	}
	return out
}

// QueryClient is safe for concurrent use. All writes to an entry happen under
// a single mutex, so readers never observe a partially applied patch.
type QueryClient struct {
	mu       sync.Mutex
	entries  map[string]*entry
	fetchers map[string]Fetcher
	flight   singleflight.Group
	tokenSeq uint64
	now      func() time.Time

	loadTimeout time.Duration
}

func NewQueryClient() *QueryClient {
	return &QueryClient{
		entries:  map[string]*entry{},
		fetchers:    map[string]Fetcher{},
		now:         time.Now,
		loadTimeout: DefaultLoadTimeout,
	}
}

// Register installs the fetcher used for every key of a collection.
func (c *QueryClient) Register(collection string, f Fetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchers[collection] = f
}

// Fetch returns the cached value of key, loading it when missing or stale.
// Concurrent loads of the same key share one remote call. A load cancelled by
// CancelQueries or Invalidate is retried when nothing is cached for key.
func (c *QueryClient) Fetch(ctx context.Context, key QueryKey) (any, error) {
	var err error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		c.mu.Lock()
		if e, ok := c.entries[key.id()]; ok && e.hasData && !e.stale {
			data := e.data
			c.mu.Unlock()
			return data, nil
		}
		c.mu.Unlock()

		var data any
		data, err = c.refetch(ctx, key)
		if !errors.Is(err, ErrFetchCancelled) {
			return data, err
		}
		if cached, ok := c.GetQueryData(key); ok {
			return cached, nil
		}
		log.Printf("[cache][fetch] load cancelled with nothing cached key=%s attempt=%d", key, attempt+1)
	}
	return nil, err
}

// refetch joins the shared load of key. The load runs detached from the
// callers' contexts; each caller stops waiting when its own ctx is done.
func (c *QueryClient) refetch(ctx context.Context, key QueryKey) (any, error) {
	ch := c.flight.DoChan(key.id(), func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		return c.load(lctx, key)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *QueryClient) load(ctx context.Context, key QueryKey) (any, error) {
	c.mu.Lock()
	fetch, ok := c.fetchers[key.Collection()]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNoFetcher, key.Collection())
	}
	e := c.entryLocked(key)
	e.fetchSeq++
	seq := e.fetchSeq
	fctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	data, err := fetch(fctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e.fetchSeq != seq {
		// cancelled or superseded while in flight; the result is dropped
		return nil, ErrFetchCancelled
	}
	e.cancel = nil
	if err != nil {
		return nil, err
	}
	c.writeLocked(e, data)
	e.stale = false
	return data, nil
}

func (c *QueryClient) GetQueryData(key QueryKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok || !e.hasData {
		return nil, false
	}
	return e.data, true
}

func (c *QueryClient) SetQueryData(key QueryKey, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLocked(c.entryLocked(key), data)
}

// Entries returns the entries under prefix that hold data.
func (c *QueryClient) Entries(prefix QueryKey) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Entry
	for _, e := range c.entries {
		if e.hasData && e.key.HasPrefix(prefix) {
			out = append(out, Entry{Key: e.key.clone(), Data: e.data})
		}
	}
	return out
}

func (c *QueryClient) State(key QueryKey) (EntryState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok {
		return EntryState{}, false
	}
	return EntryState{
		Key:           e.key.clone(),
		Version:       e.version,
		HasData:       e.hasData,
		Stale:         e.stale,
		Fetching:      e.cancel != nil,
		Invalidations: e.invalidations,
		UpdatedAt:     e.updatedAt,
	}, true
}

// CancelQueries aborts in-flight loads of every key under prefix. Their results,
// if they still arrive, are discarded. It returns the number of aborted loads.
func (c *QueryClient) CancelQueries(prefix QueryKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		if c.cancelLocked(id, e) {
			n++
		}
	}
	return n
}

// Snapshot records the current value of every entry under prefix.
func (c *QueryClient) Snapshot(prefix QueryKey) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenSeq++
	tok := Token{id: c.tokenSeq, prefix: prefix.clone()}
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		tok.saved = append(tok.saved, savedEntry{key: e.key.clone(), data: e.data, hasData: e.hasData, version: e.version})
	}
	return tok
}

// Apply patches the entries covered by tok atomically. An entry written since the
// snapshot is re-recorded first, so a rollback restores the value seen right
// before this patch. Either every entry is patched or none is.
func (c *QueryClient) Apply(tok *Token, patch Patch) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.settled {
		return 0, ErrTokenSettled
	}

	type pending struct {
		e    *entry
		next any
	}
	var writes []pending
	for i := range tok.saved {
		s := &tok.saved[i]
		e, ok := c.entries[s.key.id()]
		if !ok {
			continue
		}
		if e.version != s.version {
			s.data, s.hasData, s.version = e.data, e.hasData, e.version
		}
		if !e.hasData {
			continue
		}
		next, changed, err := patch(e.key, e.data)
		if err != nil {
			return 0, err
		}
		if changed {
			writes = append(writes, pending{e: e, next: next})
		}
	}
	for _, w := range writes {
		c.writeLocked(w.e, w.next)
	}
	return len(writes), nil
}

// Rollback restores every entry covered by tok to its recorded value.
func (c *QueryClient) Rollback(tok *Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.settled {
		return
	}
	tok.settled = true
	for _, s := range tok.saved {
		e, ok := c.entries[s.key.id()]
		if !ok {
			continue
		}
		e.data = s.data
		e.hasData = s.hasData
		e.version++
		e.updatedAt = c.now()
	}
}

// Restore settles tok by merging each recorded value into the live entry
// instead of overwriting it. Entries without data on either side are left as
// they are.
func (c *QueryClient) Restore(tok *Token, merge Merge) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.settled {
		return 0
	}
	tok.settled = true
	n := 0
	for _, s := range tok.saved {
		e, ok := c.entries[s.key.id()]
		if !ok || !e.hasData || !s.hasData {
			continue
		}
		next, changed := merge(e.key, s.data, e.data)
		if !changed {
			continue
		}
		c.writeLocked(e, next)
		n++
	}
	tok.saved = nil
	return n
}

// Commit settles tok and keeps the patched values.
func (c *QueryClient) Commit(tok *Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tok.settled = true
	tok.saved = nil
}

// Invalidate marks every entry under prefix stale and reloads the ones that were
// already loaded through a fetcher. Reload failures are collected; entries that
// failed stay stale and load again on the next Fetch.
func (c *QueryClient) Invalidate(ctx context.Context, prefix QueryKey) error {
	c.mu.Lock()
	var keys []QueryKey
	for id, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.stale = true
		e.invalidations++
		c.cancelLocked(id, e)
		if _, ok := c.fetchers[e.key.Collection()]; ok && e.hasData {
			keys = append(keys, e.key.clone())
		}
	}
	c.mu.Unlock()

	var g multierror.Group
	for _, k := range keys {
		k := k
		g.Go(func() error {
			if _, err := c.refetch(ctx, k); err != nil && !errors.Is(err, ErrFetchCancelled) {
				log.Printf("[cache][invalidate] refetch failed key=%s err=%v", k, err)
				return fmt.Errorf("refetch %s: %w", k, err)
			}
			return nil
		})
	}
	return g.Wait().ErrorOrNil()
}

func (c *QueryClient) entryLocked(key QueryKey) *entry {
	id := key.id()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key.clone()}
		c.entries[id] = e
	}
	return e
}

func (c *QueryClient) writeLocked(e *entry, data any) {
	e.data = data
	e.hasData = true
	e.version++
	e.updatedAt = c.now()
}

func (c *QueryClient) cancelLocked(id string, e *entry) bool {
	if e.cancel == nil {
		return false
	}
	e.cancel()
	e.cancel = nil
	e.fetchSeq++
	c.flight.Forget(id)
	return true
}
