// Package xdotool drives an X11 desktop through the xdotool and ImageMagick
// import command line tools.
package xdotool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fpt/deskpilot/internal/gui/pngsize"
	"github.com/fpt/deskpilot/pkg/agent/domain"
)

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Driver implements domain.GUI and domain.Screen.
type Driver struct {
	run Runner
	// typeDelayMs is the delay between typed keystrokes
	typeDelayMs int
}

var (
	_ domain.GUI    = (*Driver)(nil)
	_ domain.Screen = (*Driver)(nil)
)

type Option func(*Driver)

// WithRunner replaces command execution, used by tests.
func WithRunner(r Runner) Option {
	return func(d *Driver) { d.run = r }
}

func WithTypeDelay(ms int) Option {
	return func(d *Driver) {
		if ms >= 0 {
			d.typeDelayMs = ms
		}
	}
}

func New(opts ...Option) *Driver {
	d := &Driver{run: execRunner, typeDelayMs: 12}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CheckTools verifies that the required binaries are on PATH.
func CheckTools() error {
	for _, bin := range []string{"xdotool", "import"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found in PATH: %w", bin, err)
		}
	}
	return nil
}

func (d *Driver) ScreenSize(ctx context.Context) (int, int, error) {
	out, err := d.run(ctx, "xdotool", "getdisplaygeometry")
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected getdisplaygeometry output %q", strings.TrimSpace(string(out)))
	}
	w, errW := strconv.Atoi(fields[0])
	h, errH := strconv.Atoi(fields[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("unexpected getdisplaygeometry output %q", strings.TrimSpace(string(out)))
	}
	return w, h, nil
}

func (d *Driver) Click(ctx context.Context, x, y int) error {
	return d.xdotool(ctx, "mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y), "click", "1")
}

func (d *Driver) RightClick(ctx context.Context, x, y int) error {
	return d.xdotool(ctx, "mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y), "click", "3")
}

func (d *Driver) DoubleClick(ctx context.Context, x, y int) error {
	return d.xdotool(ctx, "mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y), "click", "--repeat", "2", "--delay", "80", "1")
}

// Write types text literally; "--" keeps leading dashes from being read as flags.
func (d *Driver) Write(ctx context.Context, text string) error {
	return d.xdotool(ctx, "type", "--delay", strconv.Itoa(d.typeDelayMs), "--", text)
}

// Capture grabs the root window as PNG.
func (d *Driver) Capture(ctx context.Context) (domain.Screenshot, error) {
	out, err := d.run(ctx, "import", "-silent", "-window", "root", "png:-")
	if err != nil {
		return domain.Screenshot{}, err
	}
	return pngsize.Screenshot(out)
}

func (d *Driver) xdotool(ctx context.Context, args ...string) error {
	_, err := d.run(ctx, "xdotool", args...)
	return err
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
