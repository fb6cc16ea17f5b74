package framesource

import (
	"context"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
)

// CroppingOpener обрезает края каждого кадра открытого источника.
type CroppingOpener struct {
	next port.SourceOpener
	crop entity.Crop
}

// WithCrop оборачивает opener. Нулевая обрезка возвращает opener как есть.
func WithCrop(next port.SourceOpener, crop entity.Crop) port.SourceOpener {
	if crop.IsZero() {
		return next
	}
	return &CroppingOpener{next: next, crop: crop}
}

// Open открывает источник и оборачивает его.
func (o *CroppingOpener) Open(ctx context.Context, target string) (port.FrameSource, error) {
	src, err := o.next.Open(ctx, target)
	if err != nil {
		return nil, err
	}
	return &croppingSource{FrameSource: src, crop: o.crop}, nil
}

type croppingSource struct {
	port.FrameSource
	crop entity.Crop
}

func (s *croppingSource) Next(ctx context.Context) (entity.Frame, error) {
	f, err := s.FrameSource.Next(ctx)
	if err != nil {
		return f, err
	}
	return s.crop.Apply(f), nil
}
