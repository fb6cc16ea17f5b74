//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"smart-traffic/internal/domain/entity"
)

// CascadeDetector ищет машины каскадом Хаара из OpenCV.
type CascadeDetector struct {
	ModelPath string
	MinSize   image.Point // 0x0 — без ограничения
	MaxSize   image.Point

	mu         sync.Mutex
	classifier gocv.CascadeClassifier
	closed     bool
}

// NewCascadeDetector загружает каскад из XML-файла.
func NewCascadeDetector(modelPath string) (*CascadeDetector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrModelUnavailable, err)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(modelPath) {
		_ = classifier.Close()
		return nil, fmt.Errorf("%w: cannot load cascade %s", entity.ErrModelUnavailable, modelPath)
	}

	return &CascadeDetector{
		ModelPath:  modelPath,
		classifier: classifier,
	}, nil
}

// Detect запускает detectMultiScale. Кадр только читается.
func (d *CascadeDetector) Detect(frame entity.Frame, params entity.DetectionParams) (entity.DetectionResult, error) {
	if err := params.Validate(); err != nil {
		return entity.DetectionResult{}, err
	}

	mat, err := frameToMat(frame)
	if err != nil {
		return entity.DetectionResult{}, err
	}
	defer mat.Close()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return entity.DetectionResult{}, entity.ErrModelUnavailable
	}

	rects := d.classifier.DetectMultiScaleWithParams(mat, params.ScaleFactor, params.MinNeighbors, 0, d.MinSize, d.MaxSize)
	boxes := make([]entity.BoundingBox, 0, len(rects))
	for _, r := range rects {
		boxes = append(boxes, entity.BoundingBox{
			X:      r.Min.X,
			Y:      r.Min.Y,
			Width:  r.Dx(),
			Height: r.Dy(),
		})
	}
	return entity.NewDetectionResult(boxes), nil
}

// Close освобождает каскад. Повторный вызов безопасен.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.classifier.Close()
}

// frameToMat копирует пиксели кадра в gocv.Mat.
func frameToMat(frame entity.Frame) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), errors.New("empty frame")
	}

	var mt gocv.MatType
	switch frame.Channels {
	case 1:
		mt = gocv.MatTypeCV8UC1
	case 3:
		mt = gocv.MatTypeCV8UC3
	case 4:
		mt = gocv.MatTypeCV8UC4
	default:
		return gocv.NewMat(), fmt.Errorf("unsupported channel count %d", frame.Channels)
	}

	size := frame.Width * frame.Height * frame.Channels
	return gocv.NewMatFromBytes(frame.Height, frame.Width, mt, frame.Pix[:size])
}

// matToFrame копирует gocv.Mat в кадр.
func matToFrame(seq uint64, mat gocv.Mat) entity.Frame {
	return entity.NewFrame(seq, mat.Cols(), mat.Rows(), mat.Channels(), mat.ToBytes())
}
