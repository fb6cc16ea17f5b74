package framesource

import (
	"context"
	"fmt"
	"net/url"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
	"smart-traffic/internal/infrastructure/imagefile"
)

// Router выбирает источник по виду target: картинки идут в Stills,
// номер камеры, видеофайлы и адреса потоков (rtsp://, http://) в Video.
type Router struct {
	Video  port.SourceOpener
	Stills port.SourceOpener
}

// NewRouter создаёт маршрутизатор источников.
func NewRouter(video, stills port.SourceOpener) *Router {
	return &Router{Video: video, Stills: stills}
}

// Open открывает подходящий источник.
func (r *Router) Open(ctx context.Context, target string) (port.FrameSource, error) {
	if target == "" {
		return nil, fmt.Errorf("%w: empty target", entity.ErrSourceUnavailable)
	}
	// в адресе потока бывают ? и [, это не glob
	if !isStreamURL(target) && imagefile.Matches(target) && r.Stills != nil {
		return r.Stills.Open(ctx, target)
	}
	if r.Video == nil {
		return nil, fmt.Errorf("%w: no video backend for %s", entity.ErrSourceUnavailable, target)
	}
	return r.Video.Open(ctx, target)
}

// isStreamURL схема длиннее одной буквы, чтобы C:\frames не считался URL.
func isStreamURL(target string) bool {
	u, err := url.Parse(target)
	return err == nil && len(u.Scheme) > 1
}

var _ port.SourceOpener = (*Router)(nil)
