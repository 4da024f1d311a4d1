package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/warehouse-backend/pkg/logger"
)

const defaultPublishTimeout = 10 * time.Second

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

// PubSubSink publishes each message as JSON to the notification topic.
type PubSubSink struct {
	pub     publisher
	logg    *logger.Logger
	timeout time.Duration
}

func NewPubSubSink(p *gcppubsub.Publisher, logg *logger.Logger) (*PubSubSink, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return newPubSubSink(&gcpPublisher{Publisher: p}, logg), nil
}

func newPubSubSink(pub publisher, logg *logger.Logger) *PubSubSink {
	if logg == nil {
		logg = logger.Nop()
	}
	return &PubSubSink{pub: pub, logg: logg, timeout: defaultPublishTimeout}
}

func (s *PubSubSink) Notify(ctx context.Context, msg Message) {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"aggregate":    msg.Aggregate,
		"aggregate_id": msg.ID,
	})

	payload, err := json.Marshal(msg)
	if err != nil {
		s.logg.Error(logCtx, "encode notification", err)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	result := s.pub.Publish(publishCtx, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"aggregate":    msg.Aggregate,
			"aggregate_id": strconv.Itoa(msg.ID),
			"occurred_at":  msg.OccurredAt.Format(time.RFC3339Nano),
		},
	})
	if result == nil {
		s.logg.Error(logCtx, "publish notification", errors.New("publisher returned nil result"))
		return
	}
	id, err := result.Get(publishCtx)
	if err != nil {
		s.logg.Error(logCtx, "publish notification", err)
		return
	}
	s.logg.Debug(s.logg.WithField(logCtx, "message_id", id), "notification published")
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}
