// Package inline embeds screenshots as data URLs so no hosting service is needed.
package inline

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/fpt/deskpilot/pkg/agent/domain"
)

// Host implements domain.ImageHost without any network traffic.
type Host struct{}

var _ domain.ImageHost = Host{}

func New() Host { return Host{} }

// Upload returns a data:image/png URL. There is nothing to delete later, so
// the handle is empty.
func (Host) Upload(_ context.Context, shot domain.Screenshot) (domain.Upload, error) {
	if len(shot.Data) == 0 {
		return domain.Upload{}, fmt.Errorf("empty screenshot")
	}
	return domain.Upload{URL: DataURL(shot.Data)}, nil
}

func (Host) Delete(context.Context, string) error { return nil }

// DataURL encodes PNG bytes as a data URL.
func DataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
