package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// SecurityEventWriter persists security events. Satisfied by the security
// event repositories.
type SecurityEventWriter interface {
	Create(ctx context.Context, event *authDomain.SecurityEvent) error
}

// SecurityLog asynchronously forwards security events to a writer. Emit never
// blocks the caller: events are buffered and dropped (with a counter and a
// warn log) when the buffer is full. Write failures are logged and swallowed;
// they never reach the operation that emitted the event.
type SecurityLog struct {
	writer       SecurityEventWriter
	logger       *slog.Logger
	writeTimeout time.Duration

	ch        chan *authDomain.SecurityEvent
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewSecurityLog creates a SecurityLog with the given buffer size and starts
// its worker goroutine. Call Close to drain and stop it.
func NewSecurityLog(writer SecurityEventWriter, bufferSize int, logger *slog.Logger) *SecurityLog {
	if bufferSize <= 0 {
		bufferSize = 1
	}

	l := &SecurityLog{
		writer:       writer,
		logger:       logger,
		writeTimeout: 5 * time.Second,
		ch:           make(chan *authDomain.SecurityEvent, bufferSize),
		done:         make(chan struct{}),
	}

	l.wg.Add(1)
	go l.run()

	return l
}

// Emit enqueues an event for persistence. Non-blocking; drops when the buffer
// is full or the log is closed.
func (l *SecurityLog) Emit(event *authDomain.SecurityEvent) {
	if l == nil || event == nil || l.closed.Load() {
		return
	}

	select {
	case l.ch <- event:
	default:
		l.dropped.Add(1)
		l.logger.Warn("security event dropped, buffer full",
			slog.String("event_type", event.EventType))
	}
}

// Dropped returns the number of events dropped due to a full buffer.
func (l *SecurityLog) Dropped() uint64 {
	return l.dropped.Load()
}

// Close drains buffered events and stops the worker. Safe to call more than once.
func (l *SecurityLog) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
		l.wg.Wait()
	})
}

func (l *SecurityLog) run() {
	defer l.wg.Done()

	for {
		select {
		case event := <-l.ch:
			l.write(event)
		case <-l.done:
			// Drain whatever is left before exiting
			for {
				select {
				case event := <-l.ch:
					l.write(event)
				default:
					return
				}
			}
		}
	}
}

func (l *SecurityLog) write(event *authDomain.SecurityEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
	defer cancel()

	if err := l.writer.Create(ctx, event); err != nil {
		l.logger.Error("failed to persist security event",
			slog.String("event_type", event.EventType),
			slog.Any("error", err))
	}
}
