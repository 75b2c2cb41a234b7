package chrome

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"
)

// findBrowser skips the test when no Chrome binary is installed
func findBrowser(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no Chrome or Chromium binary found; skipping browser integration test")
	return ""
}

func TestDriver_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}
	execPath := findBrowser(t)

	clicked := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/hit" {
			clicked <- r.URL.Query().Get("kind")
			return
		}
		fmt.Fprint(w, `<html><body style="margin:0">
			<button id="b" style="position:absolute;left:0;top:0;width:200px;height:100px"
				onclick="fetch('/hit?kind=click')">Press</button>
			<input id="i" style="position:absolute;left:0;top:200px;width:200px" />
		</body></html>`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	d, err := New(ctx, Config{StartURL: srv.URL, Width: 800, Height: 600, Headless: true, ExecPath: execPath})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer d.Close()

	shot, err := d.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if shot.Width != 800 || shot.Height != 600 {
		t.Errorf("Capture() size = %dx%d, want 800x600", shot.Width, shot.Height)
	}

	if err := d.Click(ctx, 100, 50); err != nil {
		t.Fatalf("Click() error: %v", err)
	}
	select {
	case kind := <-clicked:
		if kind != "click" {
			t.Errorf("unexpected hit %q", kind)
		}
	case <-ctx.Done():
		t.Fatal("button click was not observed")
	}

	if err := d.Click(ctx, 100, 210); err != nil {
		t.Fatalf("focusing input failed: %v", err)
	}
	if err := d.Write(ctx, "hello"); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
}

func TestDriver_ScreenSizeIsViewport(t *testing.T) {
	d := &Driver{width: 1024, height: 768}
	w, h, err := d.ScreenSize(context.Background())
	if err != nil || w != 1024 || h != 768 {
		t.Errorf("ScreenSize() = %d, %d, %v", w, h, err)
	}
}
