//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"smart-traffic/internal/domain/entity"
)

// Renderer переводит кадры в серый и рисует рамки средствами OpenCV.
type Renderer struct{}

// NewRenderer создаёт рендерер кадров.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Grayscale BGR → GRAY через cvtColor.
func (r *Renderer) Grayscale(frame entity.Frame) (entity.Frame, error) {
	if frame.Empty() {
		return entity.Frame{}, errors.New("empty frame")
	}
	if frame.Channels == 1 {
		return frame, nil
	}

	code := gocv.ColorBGRToGray
	if frame.Channels == 4 {
		code = gocv.ColorBGRAToGray
	}

	mat, err := frameToMat(frame)
	if err != nil {
		return entity.Frame{}, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, code)

	return matToFrame(frame.Seq, gray), nil
}

// Annotate рисует рамки на копии кадра.
func (r *Renderer) Annotate(frame entity.Frame, boxes []entity.BoundingBox, style entity.BoxStyle) (entity.Frame, error) {
	if len(boxes) == 0 || frame.Empty() {
		return frame, nil
	}

	src, err := frameToMat(frame)
	if err != nil {
		return entity.Frame{}, fmt.Errorf("annotate frame %d: %w", frame.Seq, err)
	}
	defer src.Close()

	// src смотрит в буфер кадра, рисуем на собственной копии
	out := src.Clone()
	defer out.Close()

	thickness := style.Thickness
	if thickness <= 0 {
		thickness = 1
	}
	// Line8 без сглаживания, как rectangle по умолчанию
	for _, b := range boxes {
		rect := image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
		gocv.RectangleWithParams(&out, rect, style.Color, thickness, gocv.Line8, 0)
	}

	return matToFrame(frame.Seq, out), nil
}
