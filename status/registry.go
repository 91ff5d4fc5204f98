package status

import "sync/atomic"

// Metric keys published by the server
const (
	KeyConnected    = "session.connected"
	KeySessionID    = "session.id"
	KeyPeer         = "session.peer"
	KeyCommands     = "session.commands"
	KeyUnknown      = "session.unknown_commands"
	KeyTicks        = "session.ticks"
	KeySnapshots    = "session.snapshots"
	KeyState        = "game.state"
	KeyPiecesLocked = "game.pieces_locked"
	KeyLinesCleared = "game.lines_cleared"
	KeyFill         = "game.fill_ratio"
	KeyBoard        = "game.board"
)

// Registry is the central metrics facade
// Writers cache cell pointers at setup; readers (status endpoint) walk the maps
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Export copies every metric into a flat map keyed by metric name
func (r *Registry) Export() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *AtomicFloat) { out[k] = v.Load() })
	r.Strings.Range(func(k string, v *AtomicString) { out[k] = v.Load() })
	return out
}
