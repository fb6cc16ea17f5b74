package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"smart-traffic/internal/domain/entity"
)

const (
	msgHelp = `Команды:
start  — запустить распознавание и светофор
stop   — остановить сессию
status — состояние сессии, фаза светофора и число машин
help   — справка
quit   — завершить работу (также q, shutdown)`

	msgStarted        = "Сессия запущена."
	msgStopped        = "Сессия остановлена."
	msgAlreadyRunning = "Сессия уже идёт. Сначала выполните stop."
	msgAlreadyIdle    = "Сессия не запущена."
	msgSourceError    = "Не удалось открыть источник кадров. Проверьте камеру или путь и повторите start."
	msgShutdown       = "Контроллер остановлен, запуск невозможен."
	msgStartError     = "Не удалось запустить сессию."
	msgUnknownCommand = "Неизвестная команда. Используйте help для справки."
	msgBye            = "Завершение работы."
)

// Session управление сессией распознавания.
type Session interface {
	Start(ctx context.Context) error
	Stop()
	Status() entity.SessionStatus
}

// SignalReader снимок состояния светофора.
type SignalReader interface {
	State() entity.SignalState
}

// Counter последнее число машин в кадре.
type Counter interface {
	VehicleCount() int
}

// Console читает команды построчно и отвечает в out.
type Console struct {
	session Session
	signal  SignalReader
	counter Counter
	out     io.Writer
	log     *zap.Logger
}

// NewConsole создаёт консоль управления.
func NewConsole(session Session, signal SignalReader, counter Counter, out io.Writer, log *zap.Logger) *Console {
	return &Console{
		session: session,
		signal:  signal,
		counter: counter,
		out:     out,
		log:     log,
	}
}

// Run обрабатывает команды до quit, конца ввода или отмены ctx.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	// Scanner блокируется на чтении, поэтому читаем в отдельной горутине.
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	c.reply(msgHelp)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read commands: %w", err)
			}
			return nil
		case line := <-lines:
			if quit := c.handle(ctx, line); quit {
				c.reply(msgBye)
				return nil
			}
		}
	}
}

// handle выполняет одну команду. Возвращает true на quit.
func (c *Console) handle(ctx context.Context, line string) bool {
	cmd := strings.ToLower(strings.TrimSpace(line))
	cmd = strings.TrimPrefix(cmd, "/")

	switch cmd {
	case "":
		return false

	case "start":
		c.start(ctx)

	case "stop":
		if c.session.Status() == entity.StatusIdle {
			c.reply(msgAlreadyIdle)
			return false
		}
		c.session.Stop()
		c.reply(msgStopped)

	case "status":
		c.reply(c.statusLine())

	case "help":
		c.reply(msgHelp)

	case "quit", "q", "shutdown", "exit":
		return true

	default:
		c.reply(msgUnknownCommand)
	}
	return false
}

func (c *Console) start(ctx context.Context) {
	err := c.session.Start(ctx)
	switch {
	case err == nil:
		c.reply(msgStarted)
	case errors.Is(err, entity.ErrAlreadyRunning):
		c.reply(msgAlreadyRunning)
	case errors.Is(err, entity.ErrSourceUnavailable):
		c.reply(msgSourceError)
	case errors.Is(err, entity.ErrShutdown):
		c.reply(msgShutdown)
	default:
		c.log.Error("start failed", zap.Error(err))
		c.reply(msgStartError)
	}
}

func (c *Console) statusLine() string {
	st := c.signal.State()
	line := fmt.Sprintf("Статус: %s, сигнал: %s", c.session.Status(), st.Phase)
	if st.Running {
		line += fmt.Sprintf(" (ещё %.1f с)", st.Remaining.Seconds())
	}
	return line + fmt.Sprintf(", машин: %d", c.counter.VehicleCount())
}

func (c *Console) reply(text string) {
	if _, err := fmt.Fprintln(c.out, text); err != nil {
		c.log.Warn("failed to write reply", zap.Error(err))
	}
}
