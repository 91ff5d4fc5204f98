package fsm

import "fmt"

// NewMachine creates an empty FSM
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		nodes: make(map[StateID]*Node[T]),
	}
}

// AddState adds a node; the first added state becomes the initial state
func (m *Machine[T]) AddState(id StateID, name string) *Node[T] {
	node := &Node[T]{
		ID:   id,
		Name: name,
	}
	m.nodes[id] = node
	if m.initialID == StateNone {
		m.initialID = id
	}
	return node
}

// SetInitial overrides the state entered by Init
func (m *Machine[T]) SetInitial(id StateID) {
	m.initialID = id
}

// OnEnter appends an entry action to a state
func (m *Machine[T]) OnEnter(id StateID, fn ActionFunc[T]) {
	if node, ok := m.nodes[id]; ok {
		node.OnEnter = append(node.OnEnter, fn)
	}
}

// OnExit appends an exit action to a state
func (m *Machine[T]) OnExit(id StateID, fn ActionFunc[T]) {
	if node, ok := m.nodes[id]; ok {
		node.OnExit = append(node.OnExit, fn)
	}
}

// AddTransition adds a transition to a specific node
func (m *Machine[T]) AddTransition(sourceID StateID, t Transition[T]) {
	if node, ok := m.nodes[sourceID]; ok {
		node.Transitions = append(node.Transitions, t)
	}
}

// Validate checks that every transition targets a known state
func (m *Machine[T]) Validate() error {
	if _, ok := m.nodes[m.initialID]; !ok {
		return fmt.Errorf("initial state ID %d not found", m.initialID)
	}
	for id, node := range m.nodes {
		for _, t := range node.Transitions {
			if _, ok := m.nodes[t.TargetID]; !ok {
				return fmt.Errorf("state %d (%s) targets missing state %d", id, node.Name, t.TargetID)
			}
		}
	}
	return nil
}

// Init enters the initial state, running its entry actions and any automatic transitions
func (m *Machine[T]) Init(ctx T) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.activeID = StateNone
	m.transitions = 0
	m.enter(ctx, m.initialID)
	return nil
}

// HandleEvent fires the first matching transition out of the active state
// Returns true if a transition occurred
func (m *Machine[T]) HandleEvent(ctx T, ev EventType) bool {
	if ev == EventAuto {
		return false
	}
	node, ok := m.nodes[m.activeID]
	if !ok {
		return false
	}
	for _, t := range node.Transitions {
		if t.Event != ev {
			continue
		}
		if t.Guard == nil || t.Guard(ctx) {
			m.transition(ctx, t.TargetID)
			return true
		}
	}
	return false
}

// Active returns the current state ID
func (m *Machine[T]) Active() StateID {
	return m.activeID
}

// Name returns the name of a state, or "" if unknown
func (m *Machine[T]) Name(id StateID) string {
	if node, ok := m.nodes[id]; ok {
		return node.Name
	}
	return ""
}

// Transitions returns the number of transitions since Init
func (m *Machine[T]) Transitions() uint64 {
	return m.transitions
}

// transition exits the active state and enters target
func (m *Machine[T]) transition(ctx T, targetID StateID) {
	if node, ok := m.nodes[m.activeID]; ok {
		for _, fn := range node.OnExit {
			fn(ctx)
		}
	}
	m.transitions++
	m.enter(ctx, targetID)
}

// enter activates targetID and follows automatic transitions until the machine settles
// The chain is bounded by the node count so a cyclic graph cannot spin forever
func (m *Machine[T]) enter(ctx T, targetID StateID) {
	for hops := 0; hops <= len(m.nodes); hops++ {
		m.activeID = targetID
		node := m.nodes[targetID]
		for _, fn := range node.OnEnter {
			fn(ctx)
		}

		next, ok := m.autoTarget(ctx, node)
		if !ok {
			return
		}
		for _, fn := range node.OnExit {
			fn(ctx)
		}
		m.transitions++
		targetID = next
	}
}

func (m *Machine[T]) autoTarget(ctx T, node *Node[T]) (StateID, bool) {
	for _, t := range node.Transitions {
		if t.Event != EventAuto {
			continue
		}
		if t.Guard == nil || t.Guard(ctx) {
			return t.TargetID, true
		}
	}
	return StateNone, false
}
