package resolve

import (
	"github.com/opst/skein/pkg/domain"
)

// rawEntry is one raw-tier record: the last fetched revision of an identity,
// with the params which fetched it.
type rawEntry struct {
	revision domain.Revision
	params   Params
}

// cachedRaw reads the raw tier. Only an entry fetched with equal params and
// still within its TTL is a hit. Callers hold m.mu.
func (m *Manager) cachedRaw(ref domain.ResourceRef, params Params) (domain.Revision, bool) {
	entry, ok := m.raw.Get(ref)
	if !ok || !entry.params.Equal(params) {
		return domain.Revision{}, false
	}
	return entry.revision, true
}

// FromCache returns the cached scene of ref, and whether there is one.
// It never fetches.
func (m *Manager) FromCache(ref domain.ResourceRef) (*Scene, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scene, ok := m.scenes[ref]
	return scene, ok
}

// ClearCache drops both cache tiers for all identities. Bindings and phases
// stay as they are.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenes = map[domain.ResourceRef]*Scene{}
	m.raw.Purge()
}
