// Package resolve loads resources at their preferred schema versions,
// falling back once to the stored version when the two differ, and keeps
// the results cached.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/opst/skein/pkg/domain"
	domerr "github.com/opst/skein/pkg/domain/errors"
	"github.com/opst/skein/pkg/domain/kind"
)

// DefaultRawCacheTTL bounds how long a raw fetch response may be served
// again without going back to the wire.
const DefaultRawCacheTTL = 500 * time.Millisecond

// Manager resolves resources against a schema registry through a Transport.
//
// Per identity, the Manager runs the fetch lifecycle (see Phase), keeps the
// active schema version binding, and owns two cache tiers: raw fetch
// responses with a short TTL, and materialized scenes which live until they
// are invalidated.
//
// All methods are safe for concurrent use. Fetches of distinct identities
// run independently; for one identity, the newest fetch wins and completions
// of older ones are discarded.
type Manager struct {
	registry  *kind.Registry
	transport Transport

	rawTTL  time.Duration
	rawSize int

	mu       sync.Mutex
	bindings map[domain.ResourceRef]*binding
	scenes   map[domain.ResourceRef]*Scene
	raw      *expirable.LRU[domain.ResourceRef, rawEntry]

	flight singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager) *Manager

// WithRawCacheTTL overrides DefaultRawCacheTTL.
func WithRawCacheTTL(ttl time.Duration) Option {
	return func(m *Manager) *Manager {
		m.rawTTL = ttl
		return m
	}
}

// WithRawCacheSize caps the raw tier entry count. Non-positive means
// unbounded.
func WithRawCacheSize(size int) Option {
	return func(m *Manager) *Manager {
		m.rawSize = size
		return m
	}
}

// New builds a Manager over a schema registry and a transport.
func New(registry *kind.Registry, transport Transport, options ...Option) *Manager {
	m := &Manager{
		registry:  registry,
		transport: transport,
		rawTTL:    DefaultRawCacheTTL,
		bindings:  map[domain.ResourceRef]*binding{},
		scenes:    map[domain.ResourceRef]*Scene{},
	}
	for _, option := range options {
		m = option(m)
	}
	m.raw = expirable.NewLRU[domain.ResourceRef, rawEntry](m.rawSize, nil, m.rawTTL)
	return m
}

// binding is the per-identity fetch state.
type binding struct {
	phase      Phase
	generation uint64

	// params of the last applied load.
	params Params
	loaded bool

	// bound is the active schema version of the identity.
	bound    kind.Version
	hasBound bool
}

func newBinding() *binding {
	return &binding{phase: PhaseIdle}
}

func (b *binding) transit(to Phase) error {
	if !b.phase.CanTransit(to) {
		return InvalidTransition{From: b.phase, To: to}
	}
	b.phase = to
	return nil
}

// bindingOf returns the binding of ref, making an idle one on first touch.
// Callers hold m.mu.
func (m *Manager) bindingOf(ref domain.ResourceRef) *binding {
	b, ok := m.bindings[ref]
	if !ok {
		b = newBinding()
		m.bindings[ref] = b
	}
	return b
}

// Fetch materializes the newest revision of ref at the schema version in
// params.
//
// When the stored payload is of another schema version than requested, one
// retry is made at that stored version; a second mismatch fails the fetch.
// Failures come back as *LoadError, except cancellation, which comes back
// as the context's own error.
//
// The returned scene is shared with the cache. Use Snapshot for a copy
// which is safe to mutate.
func (m *Manager) Fetch(ctx context.Context, ref domain.ResourceRef, params Params) (*Scene, error) {
	m.mu.Lock()
	b := m.bindingOf(ref)
	b.generation++
	gen := b.generation
	if err := b.transit(PhaseFetchingPreferred); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	rev, hit := m.cachedRaw(ref, params)
	m.mu.Unlock()

	if !hit {
		fetched, err := m.fetchRaw(ctx, ref, params)
		if err != nil {
			mismatch := new(domerr.VersionMismatchError)
			if errors.As(err, &mismatch) {
				return m.fallback(ctx, ref, params, gen, mismatch)
			}
			return nil, m.fail(ref, gen, err)
		}
		rev = fetched
	}

	scene, bound, err := m.materialize(rev)
	if err != nil {
		return nil, m.fail(ref, gen, err)
	}
	return m.complete(ref, params, gen, rev, scene, bound)
}

// fallback is the single retry at the schema version actually stored.
func (m *Manager) fallback(
	ctx context.Context,
	ref domain.ResourceRef,
	params Params,
	gen uint64,
	mismatch *domerr.VersionMismatchError,
) (*Scene, error) {
	// the stored version must resolve before fetching again
	if _, err := m.resolveLabel(ref, mismatch.Actual); err != nil {
		return nil, m.fail(ref, gen, err)
	}

	m.mu.Lock()
	b := m.bindingOf(ref)
	if b.generation == gen {
		if err := b.transit(PhaseFetchingFallback); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	}
	m.mu.Unlock()

	fallbackParams := params
	fallbackParams.Version = mismatch.Actual
	rev, err := m.fetchRaw(ctx, ref, fallbackParams)
	if err != nil {
		// a second mismatch is not retried further
		return nil, m.fail(ref, gen, err)
	}
	scene, bound, err := m.materialize(rev)
	if err != nil {
		return nil, m.fail(ref, gen, err)
	}
	return m.complete(ref, params, gen, rev, scene, bound)
}

// fetchRaw goes to the wire, collapsing identical concurrent requests.
func (m *Manager) fetchRaw(ctx context.Context, ref domain.ResourceRef, params Params) (domain.Revision, error) {
	key := ref.String() + "?" + params.String()
	v, err, _ := m.flight.Do(key, func() (any, error) {
		return m.transport.FetchResource(ctx, ref, params)
	})
	if err != nil {
		return domain.Revision{}, err
	}
	return v.(domain.Revision), nil
}

// materialize decodes a stored revision through the schema version its
// envelope names.
func (m *Manager) materialize(rev domain.Revision) (*Scene, kind.Version, error) {
	apiVersion, err := kind.PeekAPIVersion(rev.Value)
	if err != nil {
		return nil, kind.Version{}, err
	}
	_, label, err := kind.ParseAPIVersion(apiVersion)
	if err != nil {
		return nil, kind.Version{}, err
	}
	bound, err := m.resolveLabel(rev.ResourceRef, label)
	if err != nil {
		return nil, kind.Version{}, err
	}
	obj, err := bound.Codec.Decode(rev.Value)
	if err != nil {
		return nil, kind.Version{}, err
	}

	scene := &Scene{
		Ref:     rev.ResourceRef,
		Guid:    rev.Guid,
		Version: rev.Version,
		Bound:   bound,
		Object:  obj,
		value:   append([]byte(nil), rev.Value...),
	}
	if rev.Folder != nil {
		folder := *rev.Folder
		scene.Folder = &folder
	}
	return scene, bound, nil
}

// resolveLabel resolves a schema version label for the kind serving ref.
func (m *Manager) resolveLabel(ref domain.ResourceRef, label string) (kind.Version, error) {
	k, err := m.registry.KindFor(ref.Group, ref.Resource)
	if err != nil {
		return kind.Version{}, err
	}
	return m.registry.Resolve(ref.Group, k.Name, label)
}

// complete applies a finished fetch, unless a newer one superseded it.
func (m *Manager) complete(
	ref domain.ResourceRef,
	params Params,
	gen uint64,
	rev domain.Revision,
	scene *Scene,
	bound kind.Version,
) (*Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bindingOf(ref)
	if b.generation != gen {
		// superseded: hand the scene to the caller, touch nothing
		return scene, nil
	}
	if err := b.transit(PhaseResolved); err != nil {
		return nil, err
	}
	b.bound, b.hasBound = bound, true
	b.params = params
	b.loaded = true
	m.scenes[ref] = scene
	m.raw.Add(ref, rawEntry{revision: rev, params: params})
	return scene, nil
}

// fail applies a failed fetch, unless superseded. Cancellation moves the
// phase back to idle and is returned as is, never as a LoadError.
func (m *Manager) fail(ref domain.ResourceRef, gen uint64, cause error) error {
	cancelled := errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded)

	m.mu.Lock()
	b := m.bindingOf(ref)
	if b.generation == gen {
		to := PhaseFailed
		if cancelled {
			to = PhaseIdle
		}
		if err := b.transit(to); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	m.mu.Unlock()

	if cancelled {
		return cause
	}
	return loadErrorFor(cause)
}

// Reload refreshes ref when params differ by value from the last load, or
// when force is true. An equal-params reload without force is a no-op and
// issues no fetch at all.
//
// A reload which does proceed drops both cache tiers for ref first, so
// exactly one wire fetch follows.
func (m *Manager) Reload(ctx context.Context, ref domain.ResourceRef, params Params, force bool) (*Scene, error) {
	m.mu.Lock()
	b := m.bindingOf(ref)
	if !force && b.loaded && b.params.Equal(params) {
		if scene, ok := m.scenes[ref]; ok {
			m.mu.Unlock()
			return scene, nil
		}
	}
	delete(m.scenes, ref)
	m.raw.Remove(ref)
	m.mu.Unlock()

	return m.Fetch(ctx, ref, params)
}

// Save encodes the scene through its bound codec and appends it, expecting
// the scene's version to still be the head of the resource.
//
// Saving a transient scene (version 0) creates the resource. A conflicting
// concurrent append comes back as the transport's conflict error, matching
// domerr.ErrConflict; the caller re-reads and retries.
func (m *Manager) Save(ctx context.Context, scene *Scene) (*Scene, error) {
	if scene.Bound.Codec == nil {
		return nil, fmt.Errorf("scene of %s is not bound to a schema version", scene.Ref)
	}
	value, err := scene.Bound.Codec.Encode(scene.Object)
	if err != nil {
		return nil, err
	}
	spec := domain.RevisionSpec{
		ResourceRef:     scene.Ref,
		Value:           value,
		PreviousVersion: scene.Version,
	}
	if scene.Folder != nil {
		folder := *scene.Folder
		spec.Folder = &folder
	}

	rev, err := m.transport.AppendRevision(ctx, spec)
	if err != nil {
		return nil, err
	}
	saved, bound, err := m.materialize(rev)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bindingOf(scene.Ref)
	b.generation++ // the append is newer than any in-flight fetch
	b.bound, b.hasBound = bound, true
	b.loaded = true
	m.scenes[scene.Ref] = saved
	m.raw.Add(scene.Ref, rawEntry{revision: rev, params: b.params})
	return saved, nil
}

// Snapshot returns a detached deep copy of the cached scene of ref, safe to
// mutate and Save.
func (m *Manager) Snapshot(ref domain.ResourceRef) (*Scene, error) {
	scene, ok := m.FromCache(ref)
	if !ok {
		return nil, fmt.Errorf("%w: no scene of %s is loaded", domerr.ErrMissing, ref)
	}
	return scene.Copy()
}

// PhaseOf tells the fetch lifecycle phase of ref.
func (m *Manager) PhaseOf(ref domain.ResourceRef) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bindings[ref]; ok {
		return b.phase
	}
	return PhaseIdle
}

// Binding tells the active schema version of ref, once a fetch or a save
// has bound one.
func (m *Manager) Binding(ref domain.ResourceRef) (kind.Version, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bindings[ref]; ok && b.hasBound {
		return b.bound, true
	}
	return kind.Version{}, false
}
