// Package session tracks the current viewer's authentication state. It is a
// process-scoped observable cell: the auth provider's session feed and an
// eager initial read both write the same identity slot, and every registered
// observer is notified synchronously on change.
package session

import (
	"context"
	"sync"
)

// Identity is the current viewer's authentication state. The zero value is
// the anonymous identity.
type Identity struct {
	UserID string
	Email  string
}

// Anonymous is the signed-out identity.
var Anonymous = Identity{}

// IsAnonymous reports whether the identity belongs to no signed-in user.
func (id Identity) IsAnonymous() bool { return id.UserID == "" }

// Provider is the auth collaborator the tracker observes.
type Provider interface {
	// CurrentSession returns the identity of the current session, or the
	// anonymous identity if none exists.
	CurrentSession(ctx context.Context) (Identity, error)

	// OnSessionChange registers a callback invoked on every session change
	// (sign-in, sign-out, token refresh). The returned function unsubscribes
	// the callback and must be called on teardown.
	OnSessionChange(fn func(Identity)) (unsubscribe func())

	// SignOut asks the provider to terminate the current session.
	SignOut(ctx context.Context) error
}

// Tracker holds the current identity and notifies subscribers on change.
//
// The constructor's eager read and the provider feed are independent writers
// to the identity slot; no ordering is guaranteed between them beyond "last
// write wins", so consumers should re-read on every notification rather than
// caching a snapshot.
type Tracker struct {
	provider Provider

	mu       sync.Mutex
	identity Identity
	seq      uint64 // update sequence; lets a stale write be detected if strict ordering is ever needed
	subs     map[int]func(Identity)
	nextSub  int
	stop     func()
}

// NewTracker subscribes to the provider's session feed and performs one
// eager read of the current session, so consumers never wait for the first
// feed event. Call Close on teardown to release the feed subscription.
func NewTracker(ctx context.Context, provider Provider) *Tracker {
	t := &Tracker{
		provider: provider,
		subs:     make(map[int]func(Identity)),
	}
	t.stop = provider.OnSessionChange(t.set)
	if id, err := provider.CurrentSession(ctx); err == nil {
		t.set(id)
	}
	return t
}

// Identity returns the current identity. It may be stale by the time the
// caller acts on it; subscribe to observe changes.
func (t *Tracker) Identity() Identity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.identity
}

// Subscribe registers fn to be called synchronously on every identity
// change. The returned function unsubscribes it.
func (t *Tracker) Subscribe(fn func(Identity)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// SignOut asks the provider to terminate the session. On success the
// identity transitions to anonymous; on failure it is left unchanged and the
// error is returned. Sign-out is user-initiated and safe to retry manually,
// so no retry logic lives here.
func (t *Tracker) SignOut(ctx context.Context) error {
	if err := t.provider.SignOut(ctx); err != nil {
		return err
	}
	// The provider feed usually emits the sign-out as well; set is
	// idempotent so the duplicate write is harmless.
	t.set(Anonymous)
	return nil
}

// Close releases the provider feed subscription.
func (t *Tracker) Close() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

// set writes the identity slot and notifies subscribers. Writes that do not
// change the identity are dropped, which makes the two racing write paths
// (eager read and live feed) commutative.
func (t *Tracker) set(id Identity) {
	t.mu.Lock()
	if id == t.identity {
		t.mu.Unlock()
		return
	}
	t.identity = id
	t.seq++
	fns := make([]func(Identity), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	// Deliver outside the lock so observers may re-read the tracker.
	for _, fn := range fns {
		fn(id)
	}
}
