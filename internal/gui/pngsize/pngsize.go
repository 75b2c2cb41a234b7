// Package pngsize reads the dimensions of PNG screenshots.
package pngsize

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/fpt/deskpilot/pkg/agent/domain"
)

// Screenshot wraps encoded PNG bytes with their decoded size.
func Screenshot(data []byte) (domain.Screenshot, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.Screenshot{}, fmt.Errorf("screenshot is not a PNG: %w", err)
	}
	return domain.Screenshot{Data: data, Width: cfg.Width, Height: cfg.Height}, nil
}
