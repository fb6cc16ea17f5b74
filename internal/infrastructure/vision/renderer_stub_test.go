//go:build !gocv
// +build !gocv

package vision

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"smart-traffic/internal/domain/entity"
)

// Толстая линия центрируется на границе рамки: при толщине 3
// закрашены пиксели x-1..x+1 вокруг каждой стороны.
func TestRenderer_ThickStrokeIsCentred(t *testing.T) {
	f := solidFrame(30, 30, 0, 0, 0)
	style := entity.BoxStyle{Color: color.RGBA{B: 255, A: 255}, Thickness: 3}

	out, err := NewRenderer().Annotate(f, []entity.BoundingBox{{X: 10, Y: 10, Width: 10, Height: 10}}, style)
	require.NoError(t, err)

	blue := []byte{255, 0, 0}
	black := []byte{0, 0, 0}
	for _, x := range []int{9, 10, 11} {
		require.Equal(t, blue, pixelAt(out, x, 15), "left edge at x=%d", x)
	}
	for _, x := range []int{19, 20, 21} {
		require.Equal(t, blue, pixelAt(out, x, 15), "right edge at x=%d", x)
	}
	require.Equal(t, black, pixelAt(out, 8, 15))
	require.Equal(t, black, pixelAt(out, 12, 15))
	require.Equal(t, black, pixelAt(out, 22, 15))
	require.Equal(t, blue, pixelAt(out, 15, 9))
	require.Equal(t, blue, pixelAt(out, 15, 21))
}

func TestRenderer_GrayFrameUsesBlueComponent(t *testing.T) {
	f := entity.NewFrame(0, 10, 10, 1, make([]byte, 100))
	style := entity.BoxStyle{Color: color.RGBA{B: 200, G: 10, R: 10, A: 255}, Thickness: 1}

	out, err := NewRenderer().Annotate(f, []entity.BoundingBox{{X: 2, Y: 2, Width: 4, Height: 4}}, style)
	require.NoError(t, err)
	require.Equal(t, []byte{200}, pixelAt(out, 2, 2))
	require.Equal(t, []byte{0}, pixelAt(out, 4, 4))
}
