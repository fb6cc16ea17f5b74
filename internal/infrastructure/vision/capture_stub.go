//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
)

// CaptureOpener заглушка для сборки без OpenCV.
type CaptureOpener struct {
	Width  int
	Height int
}

// NewCaptureOpener создаёт заглушку.
func NewCaptureOpener(width, height int) *CaptureOpener {
	return &CaptureOpener{Width: width, Height: height}
}

// Open возвращает ошибку, если сборка без тега gocv.
func (o *CaptureOpener) Open(ctx context.Context, target string) (port.FrameSource, error) {
	_ = ctx
	return nil, fmt.Errorf("%w: gocv build tag is not enabled (target %s)", entity.ErrSourceUnavailable, target)
}
