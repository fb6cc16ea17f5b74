package entity

// SessionStatus состояние сессии распознавания
type SessionStatus string

const (
	StatusIdle    SessionStatus = "IDLE"    // Система остановлена
	StatusRunning SessionStatus = "RUNNING" // Идёт распознавание
)
