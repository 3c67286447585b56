package events

import "context"

type eventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// KafkaPublisher writes events to one topic keyed by user, so events of a
// user stay ordered within a partition.
type KafkaPublisher struct {
	Producer eventProducer
	Topic    string
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	key := e.UserID
	if key == "" {
		key = e.SessionID
	}
	return p.Producer.PublishEvent(ctx, p.Topic, key, e)
}
