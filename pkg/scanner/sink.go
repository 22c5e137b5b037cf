package scanner

import (
	"context"
)

type JSONPublisher interface {
	PublishJSON(ctx context.Context, topic string, v any) error
}

type brokerSink struct {
	publisher JSONPublisher
	topic     string
}

// NewBrokerSink forwards applied detection sets to a message broker topic.
func NewBrokerSink(publisher JSONPublisher, topic string) Sink {
	return &brokerSink{publisher: publisher, topic: topic}
}

func (s *brokerSink) PublishDetections(ctx context.Context, event DetectionEvent) error {
	return s.publisher.PublishJSON(ctx, s.topic+"/"+string(event.Mode), event)
}
