package state

import (
	"errors"
	"sync"
)

// StateMachine drives a room through its phases.
type StateMachine interface {
	ChangeState(state State) error
	GetCurrentState() State
	AddTransition(from State, to State, condition func() bool) error
}

// State is one room phase. Handle* methods are silent no-ops unless the
// phase overrides them; an action arriving in the wrong phase is an
// expected, benign case and never an error.
type State interface {
	OnEnter()
	OnExit()
	OnUpdate()
	GetID() string
	HandleReady(seat int)
	HandleAction(seat int, e *InputEvent)
	HandleNewGame(seat int)
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// Phase identifiers.
const (
	StateWaiting  = "waiting"
	StatePlaying  = "playing"
	StateFinished = "finished"
)

// BaseStateMachine is the default StateMachine implementation.
type BaseStateMachine struct {
	currentState State
	transitions  map[string]map[string]func() bool // fromState -> toState -> condition
	mutex        sync.RWMutex
}

func NewBaseStateMachine(initialState State) *BaseStateMachine {
	machine := &BaseStateMachine{
		currentState: initialState,
		transitions:  make(map[string]map[string]func() bool),
	}
	initialState.OnEnter()
	return machine
}

func (sm *BaseStateMachine) ChangeState(newState State) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	currentID := sm.currentState.GetID()
	newID := newState.GetID()

	if conditions, exists := sm.transitions[currentID]; exists {
		if condition, exists := conditions[newID]; exists {
			if condition != nil && !condition() {
				return ErrTransitionNotAllowed
			}
		}
	}

	sm.currentState.OnExit()
	sm.currentState = newState
	sm.currentState.OnEnter()

	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.currentState
}

func (sm *BaseStateMachine) AddTransition(from State, to State, condition func() bool) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	fromID := from.GetID()
	toID := to.GetID()

	if _, exists := sm.transitions[fromID]; !exists {
		sm.transitions[fromID] = make(map[string]func() bool)
	}

	sm.transitions[fromID][toID] = condition
	return nil
}

// RoomStateBase supplies the no-op defaults every phase embeds.
type RoomStateBase struct {
	ID   string
	Room RoomContext
}

func (s *RoomStateBase) GetID() string {
	return s.ID
}

func (s *RoomStateBase) OnEnter() {
}

func (s *RoomStateBase) OnExit() {
}

func (s *RoomStateBase) OnUpdate() {
}

func (s *RoomStateBase) HandleReady(seat int) {
}

func (s *RoomStateBase) HandleAction(seat int, e *InputEvent) {
}

func (s *RoomStateBase) HandleNewGame(seat int) {
}
