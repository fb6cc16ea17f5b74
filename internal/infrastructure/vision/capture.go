//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
)

// CaptureOpener открывает камеру по номеру или видеофайл через VideoCapture.
type CaptureOpener struct {
	Width  int // желаемое разрешение камеры, 0 — по умолчанию
	Height int
}

// NewCaptureOpener создаёт открывалку источников OpenCV.
func NewCaptureOpener(width, height int) *CaptureOpener {
	return &CaptureOpener{Width: width, Height: height}
}

// Open принимает номер устройства ("0") или путь к файлу.
func (o *CaptureOpener) Open(ctx context.Context, target string) (port.FrameSource, error) {
	_ = ctx

	var device interface{} = target
	live := false
	if idx, err := strconv.Atoi(target); err == nil && idx >= 0 {
		device = idx
		live = true
	}

	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		if vc != nil {
			_ = vc.Close()
		}
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrSourceUnavailable, target, err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("%w: %s is not opened", entity.ErrSourceUnavailable, target)
	}

	if live {
		vc.Set(gocv.VideoCaptureBufferSize, 1)
		if o.Width > 0 && o.Height > 0 {
			vc.Set(gocv.VideoCaptureFrameWidth, float64(o.Width))
			vc.Set(gocv.VideoCaptureFrameHeight, float64(o.Height))
		}
	}

	return &captureSource{vc: vc, live: live, mat: gocv.NewMat()}, nil
}

type captureSource struct {
	mu     sync.Mutex
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	live   bool
	seq    uint64
	closed bool
}

// Next читает следующий кадр. Read блокируется до прихода кадра,
// отмена ctx проверяется только до чтения.
func (s *captureSource) Next(ctx context.Context) (entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return entity.Frame{}, entity.ErrEndOfStream
	}

	if ok := s.vc.Read(&s.mat); !ok || s.mat.Empty() {
		if s.live {
			return entity.Frame{}, fmt.Errorf("%w: camera returned no frame", entity.ErrFrameRead)
		}
		return entity.Frame{}, entity.ErrEndOfStream
	}

	frame := matToFrame(s.seq, s.mat)
	s.seq++
	return frame, nil
}

// Close освобождает устройство.
func (s *captureSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.mat.Close()
	return s.vc.Close()
}
