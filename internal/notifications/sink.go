// Package notifications delivers the one-line messages emitted after a successful commit.
// Delivery is fire-and-forget: sinks log their own failures and never fail the commit.
package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/warehouse-backend/pkg/logger"
)

// Message is what a commit workflow announces.
type Message struct {
	Aggregate  string    `json:"aggregate"`
	ID         int       `json:"id"`
	Text       string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Sink interface {
	Notify(ctx context.Context, msg Message)
}

// LogSink writes every message to the structured log.
type LogSink struct {
	logg *logger.Logger
}

func NewLogSink(logg *logger.Logger) *LogSink {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogSink{logg: logg}
}

func (s *LogSink) Notify(ctx context.Context, msg Message) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"aggregate":    msg.Aggregate,
		"aggregate_id": msg.ID,
	})
	s.logg.Info(ctx, msg.Text)
}

// Fanout hands each message to every sink on its own goroutine. Wait blocks until all
// deliveries started so far have returned; shutdown calls it before exiting.
type Fanout struct {
	sinks []Sink
	wg    sync.WaitGroup
}

func NewFanout(sinks ...Sink) *Fanout {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Fanout{sinks: out}
}

func (f *Fanout) Notify(ctx context.Context, msg Message) {
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	// The request context ends with the response; deliveries outlive it.
	ctx = context.WithoutCancel(ctx)
	for _, s := range f.sinks {
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			s.Notify(ctx, msg)
		}()
	}
}

func (f *Fanout) Wait() {
	f.wg.Wait()
}

// Recorder keeps messages in memory. Tests use it to assert on commit notifications.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(_ context.Context, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
