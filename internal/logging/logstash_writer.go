package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

var (
	errEmptyAddr     = errors.New("logstash: empty address")
	errCoolingDown   = errors.New("logstash: reconnect cooling down")
	defaultDialWait  = 2 * time.Second
	defaultWriteWait = time.Second
	defaultBackoff   = 5 * time.Second
)

// LogstashWriter ships newline-delimited JSON entries to a Logstash tcp input.
// It implements zapcore.WriteSyncer. Entries written while Logstash is
// unreachable are dropped so request handling never stalls on the log sink.
type LogstashWriter struct {
	addr    string
	dial    func(network, addr string, timeout time.Duration) (net.Conn, error)
	timeout struct{ dial, write, backoff time.Duration }

	mu      sync.Mutex
	conn    net.Conn
	retryAt time.Time
	dropped uint64
	closed  bool
}

type Option func(*LogstashWriter)

func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.timeout.dial = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.timeout.write = d }
}

// WithRetryInterval sets how long the writer waits before redialing after a
// failed connect or write.
func WithRetryInterval(d time.Duration) Option {
	return func(w *LogstashWriter) { w.timeout.backoff = d }
}

func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errEmptyAddr
	}
	w := &LogstashWriter{addr: addr, dial: net.DialTimeout}
	w.timeout.dial = defaultDialWait
	w.timeout.write = defaultWriteWait
	w.timeout.backoff = defaultBackoff
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	line := make([]byte, 0, len(p)+1)
	line = append(line, p...)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, io.ErrClosedPipe
	}
	if err := w.connectLocked(time.Now()); err != nil {
		w.dropped++
		return len(p), nil
	}
	if w.timeout.write > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeout.write))
	}
	if _, err := w.conn.Write(line); err != nil {
		w.dropped++
		w.resetLocked(time.Now())
	}
	return len(p), nil
}

// Sync is a no-op; entries are flushed on every Write.
func (w *LogstashWriter) Sync() error { return nil }

// Dropped reports how many entries were discarded while Logstash was down.
func (w *LogstashWriter) Dropped() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

func (w *LogstashWriter) connectLocked(now time.Time) error {
	if w.conn != nil {
		return nil
	}
	if now.Before(w.retryAt) {
		return errCoolingDown
	}
	conn, err := w.dial("tcp", w.addr, w.timeout.dial)
	if err != nil {
		w.retryAt = now.Add(w.timeout.backoff)
		return err
	}
	w.conn = conn
	w.retryAt = time.Time{}
	return nil
}

func (w *LogstashWriter) resetLocked(now time.Time) {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.retryAt = now.Add(w.timeout.backoff)
}
