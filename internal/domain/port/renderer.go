package port

import (
	"smart-traffic/internal/domain/entity"
)

// FrameRenderer подготовка кадра для детектора и разметка результата
type FrameRenderer interface {
	// Grayscale возвращает одноканальную копию кадра.
	// Одноканальный кадр возвращается как есть.
	Grayscale(frame entity.Frame) (entity.Frame, error)

	// Annotate рисует рамки на копии кадра, исходный кадр не меняется.
	// Без рамок возвращается исходный кадр.
	Annotate(frame entity.Frame, boxes []entity.BoundingBox, style entity.BoxStyle) (entity.Frame, error)
}
