package port

import (
	"context"

	"smart-traffic/internal/domain/entity"
)

// FrameSource последовательность кадров с камеры или из файла
type FrameSource interface {
	// Next блокируется до появления кадра. В конце файла возвращает
	// entity.ErrEndOfStream, при сбое чтения entity.ErrFrameRead.
	Next(ctx context.Context) (entity.Frame, error)

	// Close освобождает устройство. Повторный вызов ничего не делает.
	Close() error
}

// SourceOpener открывает источник кадров по номеру устройства или пути
type SourceOpener interface {
	// Open возвращает ошибку, оборачивающую entity.ErrSourceUnavailable
	Open(ctx context.Context, target string) (FrameSource, error)
}
