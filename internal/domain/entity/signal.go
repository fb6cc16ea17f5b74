package entity

import "time"

// SignalPhase фаза светофора
type SignalPhase string

const (
	PhaseRed    SignalPhase = "RED"
	PhaseGreen  SignalPhase = "GREEN"
	PhaseYellow SignalPhase = "YELLOW"
)

// Next возвращает следующую фазу цикла RED → GREEN → YELLOW → RED.
func (p SignalPhase) Next() SignalPhase {
	switch p {
	case PhaseRed:
		return PhaseGreen
	case PhaseGreen:
		return PhaseYellow
	default:
		return PhaseRed
	}
}

// SignalTimings длительности удержания каждой фазы.
type SignalTimings struct {
	RedHold    time.Duration `yaml:"red_hold"`
	GreenHold  time.Duration `yaml:"green_hold"`
	YellowHold time.Duration `yaml:"yellow_hold"`
}

// DefaultSignalTimings 10s для красного и зелёного, 3s для жёлтого.
var DefaultSignalTimings = SignalTimings{
	RedHold:    10 * time.Second,
	GreenHold:  10 * time.Second,
	YellowHold: 3 * time.Second,
}

// Hold возвращает длительность фазы.
func (t SignalTimings) Hold(p SignalPhase) time.Duration {
	switch p {
	case PhaseGreen:
		return t.GreenHold
	case PhaseYellow:
		return t.YellowHold
	default:
		return t.RedHold
	}
}

// Cycle длительность полного цикла.
func (t SignalTimings) Cycle() time.Duration {
	return t.RedHold + t.GreenHold + t.YellowHold
}

// SignalState текущая фаза и остаток времени до переключения.
type SignalState struct {
	Phase     SignalPhase
	Remaining time.Duration // 0, если контроллер остановлен
	Running   bool
}
