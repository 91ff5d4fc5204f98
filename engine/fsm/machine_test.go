package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stateIdle StateID = iota + 1
	stateRun
	stateDone
)

const (
	eventGo EventType = iota + 1
	eventStop
)

type recorder struct {
	log     []string
	blocked bool
}

func newTestMachine() *Machine[*recorder] {
	m := NewMachine[*recorder]()
	m.AddState(stateIdle, "Idle")
	m.AddState(stateRun, "Run")
	m.AddState(stateDone, "Done")

	m.OnEnter(stateIdle, func(r *recorder) { r.log = append(r.log, "enter:idle") })
	m.OnExit(stateIdle, func(r *recorder) { r.log = append(r.log, "exit:idle") })
	m.OnEnter(stateRun, func(r *recorder) { r.log = append(r.log, "enter:run") })
	m.OnEnter(stateDone, func(r *recorder) { r.log = append(r.log, "enter:done") })

	m.AddTransition(stateIdle, Transition[*recorder]{TargetID: stateRun, Event: eventGo})
	m.AddTransition(stateRun, Transition[*recorder]{
		TargetID: stateDone,
		Event:    EventAuto,
		Guard:    func(r *recorder) bool { return r.blocked },
	})
	m.AddTransition(stateRun, Transition[*recorder]{TargetID: stateIdle, Event: eventStop})
	return m
}

func TestMachine_InitEntersFirstState(t *testing.T) {
	m := newTestMachine()
	r := &recorder{}

	require.NoError(t, m.Init(r))
	assert.Equal(t, stateIdle, m.Active())
	assert.Equal(t, "Idle", m.Name(m.Active()))
	assert.Equal(t, []string{"enter:idle"}, r.log)
	assert.Equal(t, uint64(0), m.Transitions())
}

func TestMachine_HandleEvent(t *testing.T) {
	m := newTestMachine()
	r := &recorder{}
	require.NoError(t, m.Init(r))

	assert.False(t, m.HandleEvent(r, eventStop), "no stop transition from idle")
	assert.True(t, m.HandleEvent(r, eventGo))
	assert.Equal(t, stateRun, m.Active())
	assert.True(t, m.HandleEvent(r, eventStop))
	assert.Equal(t, stateIdle, m.Active())
	assert.Equal(t, []string{"enter:idle", "exit:idle", "enter:run", "enter:idle"}, r.log)
	assert.Equal(t, uint64(2), m.Transitions())
}

func TestMachine_AutoTransitionOnEntry(t *testing.T) {
	m := newTestMachine()
	r := &recorder{blocked: true}
	require.NoError(t, m.Init(r))

	assert.True(t, m.HandleEvent(r, eventGo))
	assert.Equal(t, stateDone, m.Active(), "guarded auto transition followed on entry")
	assert.False(t, m.HandleEvent(r, eventGo), "terminal state")
	assert.False(t, m.HandleEvent(r, EventAuto))
}

func TestMachine_SetInitial(t *testing.T) {
	m := newTestMachine()
	m.SetInitial(stateRun)
	r := &recorder{}

	require.NoError(t, m.Init(r))
	assert.Equal(t, stateRun, m.Active())
	assert.Equal(t, []string{"enter:run"}, r.log)

	m.SetInitial(StateID(99))
	assert.Error(t, m.Init(r), "unknown initial state")
}

func TestMachine_ValidateMissingTarget(t *testing.T) {
	m := NewMachine[*recorder]()
	m.AddState(stateIdle, "Idle")
	m.AddTransition(stateIdle, Transition[*recorder]{TargetID: stateDone, Event: eventGo})

	assert.Error(t, m.Init(&recorder{}))
}

func TestMachine_AutoCycleBounded(t *testing.T) {
	m := NewMachine[*int]()
	m.AddState(stateIdle, "A")
	m.AddState(stateRun, "B")
	m.AddTransition(stateIdle, Transition[*int]{TargetID: stateRun})
	m.AddTransition(stateRun, Transition[*int]{TargetID: stateIdle})

	n := 0
	m.OnEnter(stateIdle, func(c *int) { *c++ })
	require.NoError(t, m.Init(&n))
	assert.LessOrEqual(t, n, 3)
}
