package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/infrastructure/cache"
	"garage_crm/internal/usecase/interfaces"
)

type MutationOutcome string

const (
	OutcomeSucceeded  MutationOutcome = "succeeded"
	OutcomeFailed     MutationOutcome = "failed"
	OutcomeSuperseded MutationOutcome = "superseded"
)

// MutationResult is the settled state of one coordinated mutation.
//
// Outcome semantics:
//   - succeeded: the remote store accepted the write.
//   - failed: the remote store rejected it and the cache was rolled back.
//   - superseded: a newer mutation of the same entity was issued while this one
//     was in flight. The newer mutation owns the cache and the user feedback.
type MutationResult[E any] struct {
	Outcome      MutationOutcome       `json:"outcome"`
	Entity       E                     `json:"entity"`
	Notification entities.Notification `json:"notification"`
	Invalidated  []string              `json:"invalidated"`
}

// MutationCoordinator applies single-entity field mutations against a remote
// collection while keeping the query cache consistent.
type MutationCoordinator struct {
	cache    *cache.QueryClient
	remote   interfaces.IRemoteStore
	notifier interfaces.INotifier
	now      func() time.Time

	mu      sync.Mutex
	counter uint64
	latest  map[string]uint64
}

func NewMutationCoordinator(c *cache.QueryClient, remote interfaces.IRemoteStore, notifier interfaces.INotifier) *MutationCoordinator {
	return &MutationCoordinator{
		cache:    c,
		remote:   remote,
		notifier: notifier,
		now:      time.Now,
		latest:   map[string]uint64{},
	}
}

func (c *MutationCoordinator) Cache() *cache.QueryClient { return c.cache }

// mutation describes one field change of entity ID in Collection.
type mutation[E any] struct {
	Collection string
	ID         string
	// View is loaded when no view of the collection is cached yet.
	View cache.QueryKey
	IDOf func(E) string
	// Check validates the change against the cached entity before any write.
	Check func(current E) error
	// Apply returns the optimistic copy of the entity.
	Apply   func(current E) E
	Payload map[string]any
	// PayloadOf builds the payload from the optimistic entity when set.
	PayloadOf func(next E) map[string]any
	// DependsOn lists collections invalidated after a successful write.
	DependsOn []string
	Success   entities.Notification
}

// runMutation executes m:
//
//	checks -> cancel refetches -> snapshot -> optimistic patch -> remote update
//	-> restore the entity and report on failure | commit, dependents and report on success
//	-> invalidate the source collection in every case.
func runMutation[E any](ctx context.Context, c *MutationCoordinator, m mutation[E]) (MutationResult[E], error) {
	id := strings.TrimSpace(m.ID)
	area := m.Collection
	prefix := collectionKey(m.Collection)
	log.Printf("[%s][coordinator] mutation start id=%s", area, id)

	if id == "" {
		return rejectMutation[E](ctx, c, area, ErrInvalidID)
	}
	current, err := findCached(ctx, c.cache, prefix, m.View, id, m.IDOf)
	if err != nil {
		return rejectMutation[E](ctx, c, area, err)
	}
	if m.Check != nil {
		if err := m.Check(current); err != nil {
			return rejectMutation[E](ctx, c, area, err)
		}
	}

	cancelled := c.cache.CancelQueries(prefix)
	tok := c.cache.Snapshot(prefix)
	optimistic := m.Apply(current)
	patched, err := c.cache.Apply(&tok, replaceEntity(id, m.IDOf, optimistic))
	if err != nil {
		c.cache.Rollback(&tok)
		log.Printf("[%s][coordinator] optimistic patch failed id=%s err=%v", area, id, err)
		return MutationResult[E]{Outcome: OutcomeFailed}, &MutationError{Kind: MutationErrorValidation, Message: DefaultFailureMessage, Err: err}
	}
	log.Printf("[%s][coordinator] optimistic write id=%s cancelled_refetches=%d patched_views=%d", area, id, cancelled, patched)

	payload := m.Payload
	if m.PayloadOf != nil {
		payload = m.PayloadOf(optimistic)
	}

	seq := c.begin(m.Collection, id)
	var updated E
	remoteErr := c.remote.Update(ctx, m.Collection, id, payload, &updated)
	superseded := !c.settle(m.Collection, id, seq)

	res := MutationResult[E]{Entity: optimistic}
	var outErr error
	switch {
	case remoteErr != nil && superseded:
		// the newer write is already in the cache; rolling back would erase it
		c.cache.Commit(&tok)
		res.Outcome = OutcomeSuperseded
		log.Printf("[%s][coordinator] remote update failed for superseded mutation id=%s err=%v", area, id, remoteErr)

	case remoteErr != nil:
		// only this entity is put back; writes to other entities stay
		c.cache.Restore(&tok, restoreEntity(id, m.IDOf))
		msg := userMessage(remoteErr)
		res.Outcome = OutcomeFailed
		res.Notification = c.notify(ctx, entities.Notification{Title: msg, Variant: entities.NotificationDestructive})
		outErr = &MutationError{Kind: MutationErrorRemote, Message: msg, Err: remoteErr}
		log.Printf("[%s][coordinator] remote update failed id=%s rolled_back=true err=%v", area, id, remoteErr)

	default:
		c.cache.Commit(&tok)
		if m.IDOf(updated) != "" {
			res.Entity = updated
		}
		for _, dep := range m.DependsOn {
			c.invalidate(ctx, area, dep)
			res.Invalidated = append(res.Invalidated, dep)
		}
		if superseded {
			res.Outcome = OutcomeSuperseded
		} else {
			res.Outcome = OutcomeSucceeded
			res.Notification = c.notify(ctx, m.Success)
		}
		log.Printf("[%s][coordinator] remote update ok id=%s outcome=%s", area, id, res.Outcome)
	}

	c.invalidate(ctx, area, m.Collection)
	res.Invalidated = append(res.Invalidated, m.Collection)
	return res, outErr
}

func rejectMutation[E any](ctx context.Context, c *MutationCoordinator, area string, err error) (MutationResult[E], error) {
	log.Printf("[%s][coordinator] mutation rejected err=%v", area, err)
	mErr := validationError(err)
	n := c.notify(ctx, entities.Notification{Title: mErr.Message, Variant: entities.NotificationDestructive})
	return MutationResult[E]{Outcome: OutcomeFailed, Notification: n}, mErr
}

// findCached looks id up in every cached view under prefix.
func findCached[E any](ctx context.Context, qc *cache.QueryClient, prefix, view cache.QueryKey, id string, idOf func(E) string) (E, error) {
	var zero E
	entries := qc.Entries(prefix)
	if len(entries) == 0 && view != nil {
		if _, err := qc.Fetch(ctx, view); err != nil {
			return zero, fmt.Errorf("load %s: %w", view, err)
		}
		entries = qc.Entries(prefix)
	}
	for _, e := range entries {
		rows, ok := e.Data.([]E)
		if !ok {
			continue
		}
		for _, row := range rows {
			if idOf(row) == id {
				return row, nil
			}
		}
	}
	return zero, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
}

// replaceEntity swaps the entity with the given id for next in a cached view.
// Views that do not hold the entity are left untouched.
func replaceEntity[E any](id string, idOf func(E) string, next E) cache.Patch {
	return func(_ cache.QueryKey, current any) (any, bool, error) {
		rows, ok := current.([]E)
		if !ok {
			return current, false, nil
		}
		idx := -1
		for i := range rows {
			if idOf(rows[i]) == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return current, false, nil
		}
		out := make([]E, len(rows))
		copy(out, rows)
		out[idx] = next
		return out, true, nil
	}
}

// restoreEntity puts the recorded row of id back into a live view.
func restoreEntity[E any](id string, idOf func(E) string) cache.Merge {
	return func(key cache.QueryKey, saved, current any) (any, bool) {
		rows, ok := saved.([]E)
		if !ok {
			return current, false
		}
		for _, row := range rows {
			if idOf(row) == id {
				next, changed, _ := replaceEntity(id, idOf, row)(key, current)
				return next, changed
			}
		}
		return current, false
	}
}

func (c *MutationCoordinator) begin(collection, id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	c.latest[collection+"/"+id] = c.counter
	return c.counter
}

// settle reports whether seq is still the newest mutation of the entity.
func (c *MutationCoordinator) settle(collection, id string, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := collection + "/" + id
	if c.latest[k] != seq {
		return false
	}
	delete(c.latest, k)
	return true
}

func (c *MutationCoordinator) invalidate(ctx context.Context, area, collection string) {
	if err := c.cache.Invalidate(ctx, collectionKey(collection)); err != nil {
		log.Printf("[%s][coordinator] invalidate failed collection=%s err=%v", area, collection, err)
	}
}

func (c *MutationCoordinator) notify(ctx context.Context, n entities.Notification) entities.Notification {
	if n.Variant == "" {
		n.Variant = entities.NotificationDefault
	}
	n.At = c.now().UTC()
	if c.notifier != nil {
		c.notifier.Notify(ctx, n)
	}
	return n
}

// reportFailure surfaces a failed non-coordinated write (creates and deletes).
func (c *MutationCoordinator) reportFailure(ctx context.Context, title string, err error) {
	var mErr *MutationError
	if errors.As(err, &mErr) && mErr.Kind == MutationErrorValidation {
		title = mErr.Message
	}
	c.notify(ctx, entities.Notification{Title: title, Description: userMessageOrEmpty(err), Variant: entities.NotificationDestructive})
}

func userMessageOrEmpty(err error) string {
	if msg := userMessage(err); msg != DefaultFailureMessage {
		return msg
	}
	return ""
}
