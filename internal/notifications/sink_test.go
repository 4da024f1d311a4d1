package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-backend/pkg/logger"
)

type stubResult struct {
	id  string
	err error
}

func (r stubResult) Get(context.Context) (string, error) { return r.id, r.err }

type stubPublisher struct {
	mu   sync.Mutex
	msgs []*gcppubsub.Message
	err  error
}

func (p *stubPublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return stubResult{id: "m-1", err: p.err}
}

func TestPubSubSinkPublishesJSON(t *testing.T) {
	pub := &stubPublisher{}
	sink := newPubSubSink(pub, nil)

	sink.Notify(context.Background(), Message{Aggregate: "orders", ID: 4, Text: "Order with id: 4 has been processed."})

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "orders", pub.msgs[0].Attributes["aggregate"])
	assert.Equal(t, "4", pub.msgs[0].Attributes["aggregate_id"])

	var got Message
	require.NoError(t, json.Unmarshal(pub.msgs[0].Data, &got))
	assert.Equal(t, "Order with id: 4 has been processed.", got.Text)
}

func TestPubSubSinkLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &buf})
	sink := newPubSubSink(&stubPublisher{err: errors.New("unavailable")}, logg)

	sink.Notify(context.Background(), Message{Aggregate: "transfers", ID: 1, Text: "x"})
	assert.Contains(t, buf.String(), "publish notification")
	assert.Contains(t, buf.String(), "unavailable")
}

func TestNewPubSubSinkRequiresPublisher(t *testing.T) {
	_, err := NewPubSubSink(nil, nil)
	require.Error(t, err)
}

func TestFanoutDeliversToEverySink(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	fan := NewFanout(a, nil, b)

	ctx, cancel := context.WithCancel(context.Background())
	fan.Notify(ctx, Message{Aggregate: "shipments", ID: 2, Text: "Shipment with id: 2 has been processed."})
	cancel()
	fan.Wait()

	for _, r := range []*Recorder{a, b} {
		msgs := r.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, 2, msgs[0].ID)
		assert.False(t, msgs[0].OccurredAt.IsZero())
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	NewLogSink(logg).Notify(context.Background(), Message{Aggregate: "orders", ID: 9, Text: "Order with id: 9 has been processed."})
	assert.Contains(t, buf.String(), "Order with id: 9 has been processed.")
	assert.Contains(t, buf.String(), `"aggregate_id":9`)
}
