package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/Monsters_Go/internal/logger"
)

type retryEntry struct {
	event Event
	// handlers still owed the event; nil means the whole bus
	handlers  []Handler
	attempt   int
	nextRetry time.Time
	lastErr   error
}

// ResilientPublisher wraps a Bus with a bounded retry queue. When the bus reports a
// *DeliveryError only the failed subscribers are retried, so every other subscriber
// sees an event once. Events that still fail after maxRetries, or that do not fit in
// the queue, go to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}
	rp.wg.Add(1)
	go rp.retryWorker()
	return rp, nil
}

// PublishWithRetry publishes once synchronously and hands failures to the retry worker.
// It never returns an error: the caller's operation has already committed.
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	entry := retryEntry{
		event:     evt,
		attempt:   1,
		nextRetry: time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
	}
	entry.failed(err)
	rp.enqueue(entry)
}

// failed records err and narrows the entry to the subscribers that reported it.
func (e *retryEntry) failed(err error) {
	e.lastErr = err
	var de *DeliveryError
	if errors.As(err, &de) {
		e.handlers = de.Failed
	}
}

func (rp *ResilientPublisher) redeliver(ctx context.Context, entry retryEntry) error {
	if entry.handlers == nil {
		return rp.bus.Publish(ctx, entry.event)
	}
	return deliver(ctx, entry.event, entry.handlers)
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case <-rp.shutdown:
		rp.writeDeadLetter(entry, LogMsgEventDroppedShutdown)
		return
	default:
	}

	select {
	case rp.retryQueue <- entry:
	default:
		rp.writeDeadLetter(entry, LogMsgRetryQueueFull)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()
	for {
		select {
		case <-rp.shutdown:
			rp.drain()
			return
		case entry := <-rp.retryQueue:
			rp.process(entry)
		}
	}
}

func (rp *ResilientPublisher) process(entry retryEntry) {
	if wait := time.Until(entry.nextRetry); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-rp.shutdown:
			timer.Stop()
		}
	}

	err := rp.redeliver(context.Background(), entry)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempt)
		return
	}
	entry.failed(err)

	if entry.attempt >= rp.maxRetries {
		rp.writeDeadLetter(entry, LogMsgEventRetryExhausted)
		return
	}

	entry.attempt++
	entry.nextRetry = time.Now().Add(CalculateRetryDelay(rp.retryDelay, entry.attempt))
	logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempt, "error", err)

	select {
	case <-rp.shutdown:
		rp.writeDeadLetter(entry, LogMsgEventDroppedShutdown)
	default:
		rp.enqueue(entry)
	}
}

// drain makes one final attempt for everything still queued.
func (rp *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			drained++
			if err := rp.redeliver(context.Background(), entry); err != nil {
				entry.failed(err)
				rp.writeDeadLetter(entry, LogMsgEventDroppedShutdown)
			}
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(entry retryEntry, reason string) {
	logger.Warn(reason, "event_type", entry.event.Type, "attempts", entry.attempt)
	if err := rp.deadLetter.Write(entry.event, entry.attempt, entry.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the worker after draining the queue and closes the dead-letter file.
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.closeOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish implements Bus so the publisher can stand in wherever a Bus is expected.
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}
