package resolve

import "fmt"

// Phase is the fetch lifecycle state of one resource identity.
type Phase string

const (
	// PhaseIdle means no fetch has run yet, or the last one was cancelled.
	PhaseIdle Phase = "idle"

	// PhaseFetchingPreferred means a fetch at the requested schema version
	// is in flight.
	PhaseFetchingPreferred Phase = "fetching-preferred"

	// PhaseFetchingFallback means the preferred fetch found another schema
	// version stored, and the single retry at that version is in flight.
	PhaseFetchingFallback Phase = "fetching-fallback"

	// PhaseResolved means the last fetch materialized a scene.
	PhaseResolved Phase = "resolved"

	// PhaseFailed means the last fetch failed beyond recovery.
	PhaseFailed Phase = "failed"
)

// moves lists, per phase, the phases it may move to.
//
// The fetching phases may move back to PhaseFetchingPreferred: a newer fetch
// for the same identity supersedes the running one, whose completion is then
// discarded by the generation check. They may also move to PhaseIdle, when
// the running fetch is cancelled.
var moves = map[Phase][]Phase{
	PhaseIdle:              {PhaseFetchingPreferred},
	PhaseFetchingPreferred: {PhaseFetchingPreferred, PhaseFetchingFallback, PhaseResolved, PhaseFailed, PhaseIdle},
	PhaseFetchingFallback:  {PhaseFetchingPreferred, PhaseResolved, PhaseFailed, PhaseIdle},
	PhaseResolved:          {PhaseFetchingPreferred},
	PhaseFailed:            {PhaseFetchingPreferred},
}

// CanTransit reports whether the lifecycle may move from p to next.
func (p Phase) CanTransit(next Phase) bool {
	for _, q := range moves[p] {
		if q == next {
			return true
		}
	}
	return false
}

// InvalidTransition reports a lifecycle move the phase machine does not
// allow. Getting one back means the calling code drove the machine out of
// order.
type InvalidTransition struct {
	From Phase
	To   Phase
}

var _ error = InvalidTransition{}

func (e InvalidTransition) Error() string {
	return fmt.Sprintf("invalid phase transition: from %s to %s", e.From, e.To)
}
