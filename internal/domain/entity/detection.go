package entity

import "fmt"

// BoundingBox прямоугольная область с найденной машиной
type BoundingBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// Center возвращает координаты центра области
func (b BoundingBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Area возвращает площадь области
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// DetectionResult хранит рамки, найденные на одном кадре.
// Количество машин всегда равно числу рамок.
type DetectionResult struct {
	Boxes []BoundingBox
}

// NewDetectionResult отбрасывает рамки с отрицательными размерами.
func NewDetectionResult(boxes []BoundingBox) DetectionResult {
	kept := make([]BoundingBox, 0, len(boxes))
	for _, b := range boxes {
		if b.Width < 0 || b.Height < 0 {
			continue
		}
		kept = append(kept, b)
	}
	return DetectionResult{Boxes: kept}
}

// Count возвращает число найденных машин
func (r DetectionResult) Count() int {
	return len(r.Boxes)
}

// DetectionParams настройки каскадного поиска.
type DetectionParams struct {
	ScaleFactor  float64 `yaml:"scale_factor"`  // шаг масштаба, > 1.0
	MinNeighbors int     `yaml:"min_neighbors"` // подавление ложных срабатываний
}

// DefaultDetectionParams шаг 1.1 и три соседа.
var DefaultDetectionParams = DetectionParams{ScaleFactor: 1.1, MinNeighbors: 3}

// Validate проверяет параметры до обращения к модели.
func (p DetectionParams) Validate() error {
	if p.ScaleFactor <= 1.0 {
		return fmt.Errorf("%w: scale factor must be greater than 1.0, got %v", ErrInvalidParams, p.ScaleFactor)
	}
	if p.MinNeighbors < 0 {
		return fmt.Errorf("%w: min neighbors must be non-negative, got %d", ErrInvalidParams, p.MinNeighbors)
	}
	return nil
}
