package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// CounterPublisher counts events by type.
type CounterPublisher struct {
	Counter *prometheus.CounterVec
}

func (c *CounterPublisher) Publish(_ context.Context, e Event) error {
	c.Counter.WithLabelValues(string(e.Type)).Inc()
	return nil
}
