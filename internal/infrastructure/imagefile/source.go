package imagefile

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
)

var extensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Opener читает последовательность картинок из каталога или по glob-шаблону.
// Удобно для прогона без камеры: в конце списка отдаёт ErrEndOfStream.
type Opener struct {
	MaxSide  int           // картинки больше уменьшаются до этой стороны, 0 — без ограничения
	Interval time.Duration // пауза между кадрами, 0 — без паузы
}

// NewOpener создаёт открывалку картинок.
func NewOpener(maxSide int, interval time.Duration) *Opener {
	return &Opener{MaxSide: maxSide, Interval: interval}
}

// Matches сообщает, похож ли target на каталог, шаблон или файл с картинкой.
func Matches(target string) bool {
	if strings.ContainsAny(target, "*?[") {
		return true
	}
	if isImage(target) {
		return true
	}
	info, err := os.Stat(target)
	return err == nil && info.IsDir()
}

// Open собирает список файлов. Пустой список — ErrSourceUnavailable.
func (o *Opener) Open(ctx context.Context, target string) (port.FrameSource, error) {
	_ = ctx

	paths, err := listImages(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrSourceUnavailable, target, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no images in %s", entity.ErrSourceUnavailable, target)
	}

	return &source{paths: paths, maxSide: o.MaxSide, interval: o.Interval}, nil
}

func listImages(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		entries, err := os.ReadDir(target)
		if err != nil {
			return nil, err
		}
		var paths []string
		for _, e := range entries {
			if e.IsDir() || !isImage(e.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(target, e.Name()))
		}
		sort.Strings(paths)
		return paths, nil
	}

	matches, err := filepath.Glob(target)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, p := range matches {
		if isImage(p) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isImage(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

type source struct {
	mu       sync.Mutex
	paths    []string
	next     int
	maxSide  int
	interval time.Duration
	last     time.Time
	closed   bool
}

func (s *source) Next(ctx context.Context) (entity.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.next >= len(s.paths) {
		return entity.Frame{}, entity.ErrEndOfStream
	}

	if s.interval > 0 && !s.last.IsZero() {
		wait := s.interval - time.Since(s.last)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return entity.Frame{}, ctx.Err()
			case <-timer.C:
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, err
	}

	path := s.paths[s.next]
	seq := uint64(s.next)
	s.next++
	s.last = time.Now()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return entity.Frame{}, fmt.Errorf("%w: %s: %v", entity.ErrFrameRead, path, err)
	}
	if s.maxSide > 0 {
		b := img.Bounds()
		if b.Dx() > s.maxSide || b.Dy() > s.maxSide {
			img = imaging.Fit(img, s.maxSide, s.maxSide, imaging.Lanczos)
		}
	}
	return ToFrame(seq, img), nil
}

func (s *source) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// ToFrame переводит картинку в BGR-кадр.
func ToFrame(seq uint64, img image.Image) entity.Frame {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < w; x++ {
			src := row[x*4:]
			dst := pix[(y*w+x)*3:]
			dst[0], dst[1], dst[2] = src[2], src[1], src[0]
		}
	}
	return entity.NewFrame(seq, w, h, 3, pix)
}
