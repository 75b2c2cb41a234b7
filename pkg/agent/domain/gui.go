package domain

import "context"

// Screenshot is one captured frame encoded as PNG.
type Screenshot struct {
	Data   []byte
	Width  int
	Height int
}

// Upload references a screenshot stored by an ImageHost.
type Upload struct {
	URL    string
	Handle string
}

// Screen captures the current display.
type Screen interface {
	Capture(ctx context.Context) (Screenshot, error)
}

// ImageHost makes screenshots reachable by the model endpoint.
type ImageHost interface {
	Upload(ctx context.Context, shot Screenshot) (Upload, error)
	// Delete removes a previous upload. Callers treat failures as best-effort.
	Delete(ctx context.Context, handle string) error
}

// GUI dispatches pointer and keyboard input at physical screen coordinates.
type GUI interface {
	ScreenSize(ctx context.Context) (width, height int, err error)
	Click(ctx context.Context, x, y int) error
	RightClick(ctx context.Context, x, y int) error
	DoubleClick(ctx context.Context, x, y int) error
	// Write types text literally into the focused element without submitting it.
	Write(ctx context.Context, text string) error
}
