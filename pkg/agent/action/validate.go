package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fpt/deskpilot/pkg/agent/domain"
)

// Parse strips an incidental code fence and validates the remaining text.
func Parse(raw string) (Response, error) {
	return Validate(StripFence(raw))
}

// Validate checks raw text against the action grammar.
//
// Checks run in a fixed order: JSON shape, action, content, reasoning. The
// returned error wraps one of the domain validation sentinels.
func Validate(raw string) (Response, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Response{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if fields == nil {
		// "null" unmarshals into a nil map without error
		return Response{}, fmt.Errorf("%w: reply is not a JSON object", domain.ErrParse)
	}

	kind, err := decodeKind(fields["action"])
	if err != nil {
		return Response{}, err
	}

	act, err := decodeContent(kind, fields["content"])
	if err != nil {
		return Response{}, err
	}

	reasoning, ok := decodeString(fields["reasoning"])
	if !ok {
		return Response{}, fmt.Errorf("%w: reasoning must be a string", domain.ErrMissingReasoning)
	}

	return Response{
		Action:    act,
		Reasoning: reasoning,
		Raw:       json.RawMessage(raw),
	}, nil
}

func decodeKind(raw json.RawMessage) (Kind, error) {
	if raw == nil {
		return "", fmt.Errorf("%w: missing action field", domain.ErrUnknownAction)
	}
	name, ok := decodeString(raw)
	if !ok {
		return "", fmt.Errorf("%w: action must be a string, got %s", domain.ErrUnknownAction, raw)
	}
	kind := Kind(name)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownAction, name)
	}
	return kind, nil
}

func decodeContent(kind Kind, raw json.RawMessage) (Action, error) {
	switch {
	case kind.IsPointer():
		x, y, err := decodePair(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s content %s: %v", domain.ErrBadCoordinate, kind, printable(raw), err)
		}
		return NewPointer(kind, x, y), nil

	case kind == KindKeyboardInput, kind == KindClipboard, kind == KindQuestion:
		text, ok := decodeString(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s content must be a string, got %s", domain.ErrBadContentType, kind, printable(raw))
		}
		return NewText(kind, text), nil

	case kind == KindTaskComplete:
		// Loose on purpose: any payload is accepted and only "error" means failure.
		status, _ := decodeString(raw)
		return Complete{Status: status}, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, kind)
}

// decodePair accepts a two-element array whose items are JSON numbers or
// strings holding an integer literal.
func decodePair(raw json.RawMessage) (float64, float64, error) {
	if raw == nil {
		return 0, 0, fmt.Errorf("missing content")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return 0, 0, fmt.Errorf("expected an [x, y] array")
	}
	if len(items) != 2 {
		return 0, 0, fmt.Errorf("expected 2 coordinates, got %d", len(items))
	}
	x, err := decodeWhole(items[0])
	if err != nil {
		return 0, 0, err
	}
	y, err := decodeWhole(items[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func decodeWhole(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("empty coordinate")
	}

	switch trimmed[0] {
	case '"':
		s, _ := decodeString(trimmed)
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("coordinate %s is not a whole number", trimmed)
		}
		return float64(n), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return 0, fmt.Errorf("coordinate %s is not a number", trimmed)
		}
		return f, nil
	}
	return 0, fmt.Errorf("coordinate %s is not a number", trimmed)
}

func decodeString(raw json.RawMessage) (string, bool) {
	// json.Unmarshal accepts null for a string target; the grammar does not
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func printable(raw json.RawMessage) string {
	if raw == nil {
		return "<missing>"
	}
	return string(raw)
}
