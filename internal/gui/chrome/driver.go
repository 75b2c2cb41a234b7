// Package chrome drives a Chrome tab through the DevTools protocol. It is the
// sandboxed alternative to a real desktop: the viewport is the screen.
package chrome

import (
	"context"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"

	"github.com/fpt/deskpilot/internal/gui/pngsize"
	"github.com/fpt/deskpilot/pkg/agent/domain"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 800
)

// Config selects the start page and viewport.
type Config struct {
	StartURL string
	Width    int
	Height   int
	Headless bool
	// ExecPath overrides the browser binary lookup
	ExecPath string
}

// Driver implements domain.GUI and domain.Screen on a single tab.
type Driver struct {
	browserCtx context.Context
	cancel     context.CancelFunc
	width      int
	height     int
}

var (
	_ domain.GUI    = (*Driver)(nil)
	_ domain.Screen = (*Driver)(nil)
)

// New launches the browser and opens the start page. Close must be called.
func New(ctx context.Context, cfg Config) (*Driver, error) {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.StartURL == "" {
		cfg.StartURL = "about:blank"
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(cfg.Width, cfg.Height),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	// The browser outlives individual calls; only Close tears it down
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	d := &Driver{browserCtx: browserCtx, cancel: cancel, width: cfg.Width, height: cfg.Height}
	if err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(cfg.Width), int64(cfg.Height)),
		chromedp.Navigate(cfg.StartURL),
	); err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to start browser")
	}
	return d, nil
}

// Close shuts the browser down.
func (d *Driver) Close() {
	d.cancel()
}

func (d *Driver) ScreenSize(context.Context) (int, int, error) {
	return d.width, d.height, nil
}

func (d *Driver) Click(ctx context.Context, x, y int) error {
	return d.run(ctx, chromedp.MouseClickXY(float64(x), float64(y)))
}

func (d *Driver) RightClick(ctx context.Context, x, y int) error {
	return d.run(ctx, chromedp.MouseClickXY(float64(x), float64(y), chromedp.ButtonType(input.Right)))
}

func (d *Driver) DoubleClick(ctx context.Context, x, y int) error {
	return d.run(ctx, chromedp.MouseClickXY(float64(x), float64(y), chromedp.ClickCount(2)))
}

// Write sends text as key events to the focused element.
func (d *Driver) Write(ctx context.Context, text string) error {
	return d.run(ctx, chromedp.KeyEvent(text))
}

func (d *Driver) Capture(ctx context.Context) (domain.Screenshot, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return domain.Screenshot{}, err
	}
	return pngsize.Screenshot(buf)
}

// run executes actions on the tab and aborts them when ctx is cancelled,
// without closing the tab.
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(d.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}
