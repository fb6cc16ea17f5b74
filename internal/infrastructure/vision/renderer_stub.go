//go:build !gocv
// +build !gocv

package vision

import (
	"errors"
	"image/color"

	"smart-traffic/internal/domain/entity"
)

// Renderer заглушка без OpenCV: те же формулы, что у cvtColor и rectangle.
type Renderer struct{}

// NewRenderer создаёт рендерер-заглушку.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Grayscale переводит BGR в яркость с коэффициентами OpenCV (Q14).
func (r *Renderer) Grayscale(frame entity.Frame) (entity.Frame, error) {
	if frame.Empty() {
		return entity.Frame{}, errors.New("empty frame")
	}
	if frame.Channels == 1 {
		return frame, nil
	}
	if frame.Channels < 3 {
		return entity.Frame{}, errors.New("unsupported channel count")
	}

	out := make([]byte, frame.Width*frame.Height)
	for i := range out {
		p := frame.Pix[i*frame.Channels:]
		out[i] = luma(p[2], p[1], p[0])
	}
	return entity.NewFrame(frame.Seq, frame.Width, frame.Height, 1, out), nil
}

// Annotate рисует контур каждой рамки на копии кадра. Толстая линия
// ложится по обе стороны от границы, как у rectangle в OpenCV.
func (r *Renderer) Annotate(frame entity.Frame, boxes []entity.BoundingBox, style entity.BoxStyle) (entity.Frame, error) {
	if len(boxes) == 0 || frame.Empty() {
		return frame, nil
	}

	out := frame.Clone()
	t := style.Thickness
	if t <= 0 {
		t = 1
	}
	lo := -(t / 2)
	hi := lo + t

	for _, b := range boxes {
		x0, y0 := b.X, b.Y
		x1, y1 := b.X+b.Width, b.Y+b.Height
		fillRect(out, x0+lo, y0+lo, x1+hi, y0+hi, style.Color)
		fillRect(out, x0+lo, y1+lo, x1+hi, y1+hi, style.Color)
		fillRect(out, x0+lo, y0+lo, x0+hi, y1+hi, style.Color)
		fillRect(out, x1+lo, y0+lo, x1+hi, y1+hi, style.Color)
	}
	return out, nil
}

func luma(r, g, b byte) byte {
	return byte((uint32(r)*4899 + uint32(g)*9617 + uint32(b)*1868 + 8192) >> 14)
}

// fillRect закрашивает [x0,x1)×[y0,y1), обрезая по границам кадра.
func fillRect(f entity.Frame, x0, y0, x1, y1 int, c color.RGBA) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, f.Width), min(y1, f.Height)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	var px [4]byte
	if f.Channels == 1 {
		px[0] = c.B
	} else {
		px = [4]byte{c.B, c.G, c.R, c.A}
	}

	stride := f.Stride()
	for y := y0; y < y1; y++ {
		row := f.Pix[y*stride:]
		for x := x0; x < x1; x++ {
			copy(row[x*f.Channels:(x+1)*f.Channels], px[:f.Channels])
		}
	}
}
