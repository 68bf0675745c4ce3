package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/CosmicDialog/internal/models"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrBusClosed   = errors.New("event bus is closed")
	ErrChannelFull = errors.New("channel is full")
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SendMessageEvent - UI asks core to run a turn
type SendMessageEvent struct {
	Message string
}

func (e SendMessageEvent) UIEvent() {}

// ClearEvent - UI asks core to drop the transcript and the tool log
type ClearEvent struct{}

func (e ClearEvent) UIEvent() {}

// StateUpdateEvent - Core pushes a full snapshot to UI
type StateUpdateEvent struct {
	Messages     []models.Message
	Logs         []models.ToolLogEntry // Newest first
	IsProcessing bool
	Error        error
}

func (e StateUpdateEvent) CoreEvent() {}

// ToolFinishedEvent - Core reports a completed tool, for a transient notice
type ToolFinishedEvent struct {
	Tool   string
	Output string
}

func (e ToolFinishedEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker stops sends after repeated failures until resetTimeout passes
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && time.Since(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = time.Now()
	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// DefaultBufferSize is the capacity of each direction of the bus
const DefaultBufferSize = 100

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	mu             sync.RWMutex
	closed         bool
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return NewEventBusWithSize(DefaultBufferSize)
}

func NewEventBusWithSize(size int) *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, size),
		coreToUI:       make(chan CoreEvent, size),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	eb.mu.RLock()
	callback := eb.errorCallback
	eb.mu.RUnlock()
	if callback != nil {
		callback(busError)
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return eb.send("SendToCore", func() bool {
		select {
		case eb.uiToCore <- event:
			return true
		default:
			return false
		}
	})
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	return eb.send("SendToUI", func() bool {
		select {
		case eb.coreToUI <- event:
			return true
		default:
			return false
		}
	})
}

// send holds the read lock across the channel write so Close cannot race it
func (eb *EventBus) send(operation string, try func() bool) error {
	if eb.circuitBreaker.IsOpen() {
		eb.reportError(operation, ErrCircuitOpen)
		return ErrCircuitOpen
	}

	eb.mu.RLock()
	if eb.closed {
		eb.mu.RUnlock()
		return ErrBusClosed
	}
	ok := try()
	eb.mu.RUnlock()

	if !ok {
		eb.reportError(operation, ErrChannelFull)
		return ErrChannelFull
	}
	eb.circuitBreaker.RecordSuccess()
	return nil
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close closes both channels. It is safe to call more than once.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
