package scanner

import (
	"Supermarket-Vision-Backend/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topic string
	value any
}

func (c *capturePublisher) PublishJSON(_ context.Context, topic string, v any) error {
	c.topic, c.value = topic, v
	return nil
}

func TestBrokerSinkTopic(t *testing.T) {
	pub := &capturePublisher{}
	sink := NewBrokerSink(pub, "supermarket/scanner/detections")

	event := DetectionEvent{Sequence: 4, Mode: domain.ScanModeRealtime, Items: []domain.Detection{{Name: "Milk"}}}
	require.NoError(t, sink.PublishDetections(context.Background(), event))

	assert.Equal(t, "supermarket/scanner/detections/realtime", pub.topic)
	assert.Equal(t, event, pub.value)
}
