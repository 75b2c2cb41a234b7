package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// plainHandler is a minimal slog.Handler that prints only the message
// (prefixed by the intention icon) and appends key=value pairs, without
// time/level decorations. Intended for clean console output.
type plainHandler struct {
	w       io.Writer
	attrs   []slog.Attr
	mu      *sync.Mutex
	leveler slog.Leveler
}

func newPlainHandler(w io.Writer, leveler slog.Leveler) slog.Handler {
	return &plainHandler{w: w, leveler: leveler, mu: &sync.Mutex{}}
}

// Enabled implements slog.Handler by checking level
func (h *plainHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	if h.leveler == nil {
		return true
	}
	return lvl >= h.leveler.Level()
}

// console output skips meta fields
func hiddenKey(key string) bool {
	switch key {
	case "intention", "time", "level", "msg", "component", "session":
		return true
	}
	return false
}

// flatten calls fn for a, or for each member if a is a group
func flatten(a slog.Attr, fn func(slog.Attr)) {
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			fn(ga)
		}
		return
	}
	fn(a)
}

// Handle prints the message and key=value pairs without time/level prefixes
func (h *plainHandler) Handle(_ context.Context, r slog.Record) error {
	intention := ""
	var pairs strings.Builder
	visit := func(a slog.Attr) {
		if a.Key == "intention" {
			intention = a.Value.String()
		}
		if !hiddenKey(a.Key) {
			fmt.Fprintf(&pairs, " %s=%v", a.Key, a.Value)
		}
	}
	for _, a := range h.attrs {
		flatten(a, visit)
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(a, visit)
		return true
	})

	// Warnings and errors carry no intention; the level picks the icon
	icon := ""
	switch {
	case r.Level >= slog.LevelError:
		icon = "❌ "
	case r.Level >= slog.LevelWarn:
		icon = "⚠️ "
	case intention != "":
		icon = iconFor(Intention(intention)) + " "
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, icon+r.Message+pairs.String())
	return err
}

// WithAttrs returns a new handler with additional attributes bound
func (h *plainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

// WithGroup groups attributes; for plain output we encode as a group attr
func (h *plainHandler) WithGroup(name string) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), slog.Group(name))
	return &nh
}
