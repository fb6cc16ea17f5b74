package imagefile

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"smart-traffic/internal/domain/entity"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) {
	t.Helper()
	img := imaging.New(w, h, c)
	require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
}

func TestOpener_DirectoryInOrderThenEndOfStream(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "b.png", 4, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	writePNG(t, dir, "a.png", 2, 2, color.NRGBA{R: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	src, err := NewOpener(0, 0).Open(context.Background(), dir)
	require.NoError(t, err)
	defer src.Close()

	ctx := context.Background()
	f, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), f.Seq)
	require.Equal(t, 2, f.Width)
	require.Equal(t, []byte{0, 0, 255}, f.Pix[:3], "BGR order")

	f, err = src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), f.Seq)
	require.Equal(t, 4, f.Width)
	require.Equal(t, 3, f.Height)
	require.Equal(t, []byte{30, 20, 10}, f.Pix[:3])

	_, err = src.Next(ctx)
	require.ErrorIs(t, err, entity.ErrEndOfStream)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
}

func TestOpener_EmptyIsUnavailable(t *testing.T) {
	_, err := NewOpener(0, 0).Open(context.Background(), t.TempDir())
	require.ErrorIs(t, err, entity.ErrSourceUnavailable)

	_, err = NewOpener(0, 0).Open(context.Background(), filepath.Join(t.TempDir(), "*.png"))
	require.ErrorIs(t, err, entity.ErrSourceUnavailable)
}

func TestOpener_MaxSideResizes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "big.png", 200, 100, color.White)

	src, err := NewOpener(50, 0).Open(context.Background(), filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	f, err := src.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 50, f.Width)
	require.Equal(t, 25, f.Height)
}

func TestSource_IntervalRespectsCancel(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "1.png", 2, 2, color.White)
	writePNG(t, dir, "2.png", 2, 2, color.White)

	src, err := NewOpener(0, time.Hour).Open(context.Background(), dir)
	require.NoError(t, err)
	_, err = src.Next(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = src.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMatches(t *testing.T) {
	require.True(t, Matches("frames/*.jpg"))
	require.True(t, Matches("shot.PNG"))
	require.True(t, Matches(t.TempDir()))
	require.False(t, Matches("0"))
	require.False(t, Matches("traffic.mp4"))
}

func TestToFrame_SubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	f := ToFrame(5, sub)
	require.Equal(t, 2, f.Width)
	require.Equal(t, []byte{3, 2, 1}, f.Pix[:3])
}

func TestOpener_GlobSkipsNonImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "cam.png", 2, 2, color.White)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("skip"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cam.log"), []byte("skip"), 0o644))

	src, err := NewOpener(0, 0).Open(context.Background(), filepath.Join(dir, "*"))
	require.NoError(t, err)
	defer src.Close()

	ctx := context.Background()
	_, err = src.Next(ctx)
	require.NoError(t, err)
	_, err = src.Next(ctx)
	require.ErrorIs(t, err, entity.ErrEndOfStream)
}
