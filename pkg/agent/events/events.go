package events

import (
	"time"

	"github.com/fpt/deskpilot/pkg/agent/domain"
)

// EventType represents different types of loop events
type EventType string

const (
	EventTypeIterationStart EventType = "iteration_start"
	EventTypeUploadFailed   EventType = "upload_failed"
	EventTypeModelResponse  EventType = "model_response"
	EventTypeOutcome        EventType = "outcome"
	EventTypeError          EventType = "error"
)

// AgentEvent represents a structured event from the control loop
type AgentEvent struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	// Metadata fields
	Iteration *IterationInfo `json:"iteration,omitempty"` // Optional iteration context
}

// IterationInfo contains iteration context for events
type IterationInfo struct {
	Current int `json:"current"` // Current iteration number (1-based)
	Maximum int `json:"maximum"` // Maximum iterations allowed, 0 when unlimited
}

// UploadFailedData explains why the turn is sent without a screenshot
type UploadFailedData struct {
	Error error `json:"error"`
}

// ModelResponseData carries a validated reply
type ModelResponseData struct {
	Action    string `json:"action"`
	Reasoning string `json:"reasoning"`
	Raw       string `json:"raw"`
}

// OutcomeData reports what executing the action produced
type OutcomeData struct {
	Outcome domain.Outcome `json:"outcome"`
}

// ErrorData contains a recoverable error and the budget it was counted against
type ErrorData struct {
	Error error `json:"error"`
	Count int   `json:"count"`
	Limit int   `json:"limit"`
}

// EventHandler is a function that processes agent events
type EventHandler func(event AgentEvent)

// EventEmitter provides methods for emitting agent events
type EventEmitter interface {
	EmitEvent(eventType EventType, data interface{})
	AddHandler(handler EventHandler)
}

// SimpleEventEmitter is a basic implementation of EventEmitter.
// Handlers run synchronously on the emitting goroutine.
type SimpleEventEmitter struct {
	handlers  []EventHandler
	iteration *IterationInfo
}

// NewSimpleEventEmitter creates a new simple event emitter
func NewSimpleEventEmitter() *SimpleEventEmitter {
	return &SimpleEventEmitter{
		handlers: make([]EventHandler, 0),
	}
}

// SetIteration attaches iteration context to subsequent events
func (e *SimpleEventEmitter) SetIteration(current, maximum int) {
	e.iteration = &IterationInfo{Current: current, Maximum: maximum}
}

// EmitEvent emits an event to all registered handlers
func (e *SimpleEventEmitter) EmitEvent(eventType EventType, data interface{}) {
	event := AgentEvent{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	if e.iteration != nil {
		info := *e.iteration
		event.Iteration = &info
	}

	for _, handler := range e.handlers {
		handler(event)
	}
}

// AddHandler adds an event handler
func (e *SimpleEventEmitter) AddHandler(handler EventHandler) {
	e.handlers = append(e.handlers, handler)
}
