package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/config"
)

func TestNewProducer(t *testing.T) {
	p := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:1"}}, "stopword-filter-events")
	defer p.Close()
	if p.Topic() != "stopword-filter-events" {
		t.Errorf("topic = %q", p.Topic())
	}
}

func TestPublishRejectsUnencodableValue(t *testing.T) {
	p := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:1"}}, "events")
	defer p.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := p.Publish(ctx, Event{Key: "english", Value: make(chan int)})
	if err == nil {
		t.Fatal("expected marshal error")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("marshal failure should not reach the broker: %v", err)
	}
}
