package fsm

// StateID is a unique identifier for a node
type StateID int

// StateNone marks an uninitialized machine
const StateNone StateID = 0

// EventType identifies an external trigger
type EventType int

// EventAuto marks an automatic transition, evaluated on entering a state
const EventAuto EventType = 0

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T)

// Transition defines a link between states
type Transition[T any] struct {
	TargetID StateID
	Event    EventType    // EventAuto = evaluated immediately after entry
	Guard    GuardFunc[T] // nil = always true
}

// Node represents a state in the graph
type Node[T any] struct {
	ID   StateID
	Name string

	OnEnter []ActionFunc[T]
	OnExit  []ActionFunc[T]

	// Transitions in evaluation priority order
	Transitions []Transition[T]
}

// Machine is a flat finite state machine runtime
// T is the context type passed to actions and guards (e.g. *game.Controller)
// Not safe for concurrent use; the owner serializes access
type Machine[T any] struct {
	nodes     map[StateID]*Node[T]
	initialID StateID
	activeID  StateID

	// Number of completed transitions, for diagnostics
	transitions uint64
}
