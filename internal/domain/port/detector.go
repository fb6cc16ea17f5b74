package port

import (
	"smart-traffic/internal/domain/entity"
)

// VehicleDetector интерфейс детектора машин
type VehicleDetector interface {
	// Detect ищет машины на одноканальном кадре. Кадр не изменяется,
	// при одинаковых входных данных результат одинаковый.
	Detect(frame entity.Frame, params entity.DetectionParams) (entity.DetectionResult, error)

	// Close освобождает загруженную модель
	Close() error
}
