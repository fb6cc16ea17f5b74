package port

import (
	"smart-traffic/internal/domain/entity"
)

// Presenter граница с интерфейсом пользователя. Вызовы не должны
// надолго блокировать и не должны синхронно дёргать Start/Stop.
type Presenter interface {
	DisplayFrame(frame entity.Frame)
	DisplayVehicleCount(count int)
	DisplaySignalPhase(phase entity.SignalPhase)
	DisplayStatus(status entity.SessionStatus)
	// DisplayError сообщает пользователю об ошибке сессии
	DisplayError(err error)
}
