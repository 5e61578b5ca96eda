// Package analytics publishes usage events for the filter service. Events
// are buffered and sent by a single background goroutine so request handling
// never waits on the broker.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/kafka"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

type Collector struct {
	publisher Publisher
	eventCh   chan FilterEvent
	logger    *slog.Logger
	done      chan struct{}
	mu        sync.RWMutex
	started   bool
	closed    bool
	dropped   atomic.Int64
}

func NewCollector(publisher Publisher, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		publisher: publisher,
		eventCh:   make(chan FilterEvent, bufferSize),
		logger:    slog.Default().With("component", "analytics-collector"),
		done:      make(chan struct{}),
	}
}

// Start runs the publishing goroutine. Cancelling ctx closes the collector
// and publishes whatever is already queued.
func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				c.publish(ctx, event)
			case <-ctx.Done():
				c.shutdown()
				for event := range c.eventCh {
					c.publish(context.Background(), event)
				}
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track queues an event, dropping it if the buffer is full or the collector
// is closed.
func (c *Collector) Track(event FilterEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.dropped.Add(1)
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (c *Collector) Dropped() int64 {
	return c.dropped.Load()
}

// Close stops accepting events and waits for queued ones to be published.
// Events queued on a collector that was never started are discarded.
func (c *Collector) Close() {
	c.shutdown()
	c.mu.Lock()
	if !c.started {
		c.started = true
		close(c.done)
	}
	c.mu.Unlock()
	<-c.done
}

// shutdown marks the collector closed so Track drops new events.
func (c *Collector) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.eventCh)
	}
}

func (c *Collector) publish(ctx context.Context, event FilterEvent) {
	if err := c.publisher.Publish(ctx, kafka.Event{
		Key:   event.Language,
		Value: event,
	}); err != nil {
		c.logger.Error("failed to publish analytics event", "error", err)
	}
}
