// Package action defines the closed action grammar the model answers with
// and validates raw replies into a tagged variant.
package action

import "encoding/json"

// Kind is the value of the "action" field.
type Kind string

const (
	KindQuestion         Kind = "question"
	KindMouseMove        Kind = "mouse_move"
	KindClipboard        Kind = "clipboard"
	KindTaskComplete     Kind = "task_complete"
	KindMouseClick       Kind = "mouse_click"
	KindMouseRightClick  Kind = "mouse_right_click"
	KindMouseDoubleClick Kind = "mouse_double_click"
	KindKeyboardInput    Kind = "keyboard_input"
)

// Kinds lists the closed set in the order the instructions present it.
var Kinds = []Kind{
	KindQuestion,
	KindMouseMove,
	KindClipboard,
	KindTaskComplete,
	KindMouseClick,
	KindMouseRightClick,
	KindMouseDoubleClick,
	KindKeyboardInput,
}

// Valid reports whether k belongs to the closed set.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsPointer reports whether k carries a coordinate pair.
func (k Kind) IsPointer() bool {
	switch k {
	case KindMouseMove, KindMouseClick, KindMouseRightClick, KindMouseDoubleClick:
		return true
	}
	return false
}

// Point is a coordinate as reported by the model, in screenshot pixels.
type Point struct {
	X float64
	Y float64
}

// Action is the tagged variant resolved from "content" at validation time.
// Downstream code switches on the concrete type and never looks at raw JSON.
type Action interface {
	Kind() Kind
}

// Pointer is a mouse action at a model-reported point.
type Pointer struct {
	kind Kind
	At   Point
}

func (p Pointer) Kind() Kind { return p.kind }

// Text is an action whose payload is free text: keyboard input, clipboard
// suggestion or the confirmation question.
type Text struct {
	kind Kind
	Text string
}

func (t Text) Kind() Kind { return t.kind }

// Complete reports that the model considers the task finished.
type Complete struct {
	// Status is "success" or "error" by contract, but any string is kept.
	Status string
}

func (Complete) Kind() Kind { return KindTaskComplete }

// Failed reports whether the model ended the task with an unrecoverable error.
// Anything other than "error" counts as success.
func (c Complete) Failed() bool { return c.Status == "error" }

// NewPointer builds a pointer action; kind must be a pointer kind.
func NewPointer(kind Kind, x, y float64) Pointer {
	return Pointer{kind: kind, At: Point{X: x, Y: y}}
}

// NewText builds a free-text action.
func NewText(kind Kind, text string) Text {
	return Text{kind: kind, Text: text}
}

// Response is a validated model reply.
type Response struct {
	Action    Action
	Reasoning string
	// Raw is the JSON object exactly as the model sent it.
	Raw json.RawMessage
}

// Kind is a shorthand for r.Action.Kind().
func (r Response) Kind() Kind {
	if r.Action == nil {
		return ""
	}
	return r.Action.Kind()
}
