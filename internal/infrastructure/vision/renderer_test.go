package vision

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
)

var _ port.FrameRenderer = (*Renderer)(nil)

func solidFrame(w, h int, b, g, r byte) entity.Frame {
	pix := make([]byte, w*h*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i], pix[i+1], pix[i+2] = b, g, r
	}
	return entity.NewFrame(7, w, h, 3, pix)
}

func pixelAt(f entity.Frame, x, y int) []byte {
	i := (y*f.Width + x) * f.Channels
	return f.Pix[i : i+f.Channels]
}

func TestRenderer_Grayscale(t *testing.T) {
	r := NewRenderer()

	gray, err := r.Grayscale(solidFrame(4, 2, 255, 255, 255))
	require.NoError(t, err)
	require.Equal(t, 1, gray.Channels)
	require.Equal(t, uint64(7), gray.Seq)
	require.Len(t, gray.Pix, 8)
	for _, v := range gray.Pix {
		require.Equal(t, byte(255), v)
	}

	red, err := r.Grayscale(solidFrame(1, 1, 0, 0, 255))
	require.NoError(t, err)
	require.Equal(t, byte(76), red.Pix[0])

	// одноканальный кадр возвращается как есть
	again, err := r.Grayscale(gray)
	require.NoError(t, err)
	require.Equal(t, gray, again)

	_, err = r.Grayscale(entity.Frame{Seq: 3})
	require.Error(t, err)
}

func TestRenderer_GrayscaleDoesNotMutateInput(t *testing.T) {
	f := solidFrame(2, 2, 10, 20, 30)
	before := f.Clone()
	_, err := NewRenderer().Grayscale(f)
	require.NoError(t, err)
	require.Equal(t, before.Pix, f.Pix)
}

func TestRenderer_AnnotateNoBoxesReturnsOriginal(t *testing.T) {
	f := solidFrame(10, 10, 0, 0, 0)
	out, err := NewRenderer().Annotate(f, nil, entity.DefaultBoxStyle)
	require.NoError(t, err)
	require.Equal(t, f, out)
}

func TestRenderer_AnnotateDrawsOutlineOnCopy(t *testing.T) {
	f := solidFrame(20, 20, 0, 0, 0)
	style := entity.BoxStyle{Color: color.RGBA{R: 255, A: 255}, Thickness: 1}

	out, err := NewRenderer().Annotate(f, []entity.BoundingBox{{X: 5, Y: 5, Width: 10, Height: 10}}, style)
	require.NoError(t, err)

	red := []byte{0, 0, 255}
	black := []byte{0, 0, 0}
	require.Equal(t, red, pixelAt(out, 5, 5))
	require.Equal(t, red, pixelAt(out, 15, 15))
	require.Equal(t, red, pixelAt(out, 10, 5))
	require.Equal(t, red, pixelAt(out, 5, 10))
	require.Equal(t, black, pixelAt(out, 10, 10), "inside stays untouched")
	require.Equal(t, black, pixelAt(out, 16, 16), "outside stays untouched")
	require.Equal(t, black, pixelAt(f, 5, 5), "input frame must not change")
}

func TestRenderer_AnnotateClipsOutOfBounds(t *testing.T) {
	f := solidFrame(8, 8, 0, 0, 0)
	out, err := NewRenderer().Annotate(f, []entity.BoundingBox{{X: 4, Y: 4, Width: 50, Height: 50}}, entity.DefaultBoxStyle)
	require.NoError(t, err)
	require.Equal(t, 8, out.Width)
	require.Equal(t, []byte{0, 255, 0}, pixelAt(out, 4, 6))
}
