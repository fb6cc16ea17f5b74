package entity

import "errors"

var (
	// ErrModelUnavailable модель детектора не загружена. Фатально при старте.
	ErrModelUnavailable = errors.New("detection model unavailable")

	// ErrSourceUnavailable камера или файл не открываются.
	ErrSourceUnavailable = errors.New("frame source unavailable")

	// ErrFrameRead не удалось прочитать кадр.
	ErrFrameRead = errors.New("frame read failure")

	// ErrEndOfStream источник закончился. Это штатный конец потока, не сбой.
	ErrEndOfStream = errors.New("end of stream")

	ErrAlreadyRunning = errors.New("session already running")
	ErrShutdown       = errors.New("session controller is shut down")
	ErrInvalidParams  = errors.New("invalid detection parameters")
)
