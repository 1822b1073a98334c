package app

import (
	"sync"

	"github.com/MaciejGrzybacz/DistributedSystems/internal/domain"
	"github.com/MaciejGrzybacz/DistributedSystems/internal/ports"
)

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(component string, previous, current domain.State, reason string)
}

// Lifecycle tracks one run of the client or the server through
// Init -> Running -> Cleanup -> Terminated.
type Lifecycle struct {
	mu           sync.RWMutex
	component    string
	state        domain.State
	logger       ports.Logger
	eventEmitter EventEmitter
}

// NewLifecycle creates a lifecycle in StateInit. emitter may be nil.
func NewLifecycle(component string, logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		component:    component,
		state:        domain.StateInit,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() domain.State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo moves to newState.
// Returns domain.ErrInvalidTransition and keeps the current state if the move is not allowed.
func (l *Lifecycle) TransitionTo(newState domain.State, reason string) error {
	l.mu.Lock()
	oldState := l.state
	if !validTransition(oldState, newState) {
		l.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	l.state = newState
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(l.component, oldState, newState, reason)
	}

	l.logger.Debug("state transition",
		ports.String("component", l.component),
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

func validTransition(from, to domain.State) bool {
	switch from {
	case domain.StateInit:
		// Cleanup directly from Init when setup fails.
		return to == domain.StateRunning || to == domain.StateCleanup
	case domain.StateRunning:
		return to == domain.StateCleanup
	case domain.StateCleanup:
		return to == domain.StateTerminated
	default:
		return false
	}
}
