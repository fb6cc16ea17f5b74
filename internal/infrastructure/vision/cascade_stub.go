//go:build !gocv
// +build !gocv

package vision

import (
	"fmt"
	"image"

	"smart-traffic/internal/domain/entity"
)

// CascadeDetector заглушка для сборки без OpenCV.
type CascadeDetector struct {
	ModelPath string
	MinSize   image.Point
	MaxSize   image.Point
}

// NewCascadeDetector без тега gocv модель загрузить нельзя.
func NewCascadeDetector(modelPath string) (*CascadeDetector, error) {
	return nil, fmt.Errorf("%w: gocv build tag is not enabled (model %s)", entity.ErrModelUnavailable, modelPath)
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *CascadeDetector) Detect(frame entity.Frame, params entity.DetectionParams) (entity.DetectionResult, error) {
	_ = frame
	_ = params
	return entity.DetectionResult{}, entity.ErrModelUnavailable
}

// Close ничего не делает.
func (d *CascadeDetector) Close() error {
	return nil
}
