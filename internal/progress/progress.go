// Package progress delivers improving-solution events to their consumers:
// a terminal, a NATS subject, or several at once.
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/nats-io/nats.go"
)

// Sink receives progress updates. Publish runs on the solving goroutine
// and must not block.
type Sink interface {
	Publish(p optimizer.Progress)
}

// Func adapts a Sink for optimizer.Optimizer.Solve.
func Func(s Sink) func(optimizer.Progress) {
	if s == nil {
		return nil
	}
	return s.Publish
}

// LineWriter prints one progress line per update.
type LineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

func (l *LineWriter) Publish(p optimizer.Progress) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, p.Line())
}

// Event is the JSON payload published to NATS.
type Event struct {
	RunID       string  `json:"run_id"`
	Solution    int     `json:"solution"`
	TimeSeconds float64 `json:"time_seconds"`
	Objective   int64   `json:"objective"`
	Penalties   int     `json:"penalties"`
	Line        string  `json:"line"`
}

func NewEvent(runID string, p optimizer.Progress) Event {
	return Event{
		RunID:       runID,
		Solution:    p.Solution,
		TimeSeconds: p.Elapsed.Seconds(),
		Objective:   p.Objective,
		Penalties:   p.Penalties,
		Line:        p.Line(),
	}
}

// NATSPublisher publishes events on a subject. nats.Conn.Publish only
// buffers, so it satisfies the non-blocking contract.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	runID   string
	logger  *slog.Logger
}

func NewNATSPublisher(conn *nats.Conn, subject, runID string, logger *slog.Logger) *NATSPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NATSPublisher{conn: conn, subject: subject, runID: runID, logger: logger}
}

func (n *NATSPublisher) Publish(p optimizer.Progress) {
	data, err := json.Marshal(NewEvent(n.runID, p))
	if err != nil {
		n.logger.Warn("encoding progress event", "error", err)
		return
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		n.logger.Warn("publishing progress event", "subject", n.subject, "error", err)
	}
}

// Flush waits until buffered events reach the server.
func (n *NATSPublisher) Flush() error {
	return n.conn.Flush()
}

// Multi fans out to every non-nil sink in order.
type Multi []Sink

func (m Multi) Publish(p optimizer.Progress) {
	for _, s := range m {
		if s != nil {
			s.Publish(p)
		}
	}
}

// Recorder keeps every update; used when a caller needs the history.
type Recorder struct {
	mu      sync.Mutex
	updates []optimizer.Progress
}

func (r *Recorder) Publish(p optimizer.Progress) {
	r.mu.Lock()
	r.updates = append(r.updates, p)
	r.mu.Unlock()
}

func (r *Recorder) Updates() []optimizer.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]optimizer.Progress, len(r.updates))
	copy(out, r.updates)
	return out
}
