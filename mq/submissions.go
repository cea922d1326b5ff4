// Package mq carries order submission events from the checkout to the live
// tracking stream, over Redis pub/sub or an in-process channel.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SubmissionsChannel is the Redis channel submission events are published on.
const SubmissionsChannel = "storefront-submissions"

// Submission is emitted once per successful order submission.
type Submission struct {
	OrderID   string          `json:"orderId,omitempty"`
	Channel   string          `json:"channel"`
	Items     int             `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Submitted time.Time       `json:"submittedAt"`
}

type Emitter interface {
	Emit(ctx context.Context, s Submission) error
}

// Handler consumes submissions on the worker side.
type Handler func(Submission)

// RedisEmitter publishes submissions as JSON.
type RedisEmitter struct {
	Conn *redis.Client
}

func (e *RedisEmitter) Emit(ctx context.Context, s Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	if err := e.Conn.Publish(ctx, SubmissionsChannel, data).Err(); err != nil {
		return fmt.Errorf("publish submission: %w", err)
	}
	return nil
}

// RunSubmissionWorker subscribes to SubmissionsChannel and hands every event
// to handle until ctx is done.
func RunSubmissionWorker(ctx context.Context, conn *redis.Client, logger *zap.Logger, handle Handler) error {
	sub := conn.Subscribe(ctx, SubmissionsChannel)
	defer sub.Close()

	// wait for the subscription to be confirmed so early events are not lost
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", SubmissionsChannel, err)
	}
	logger.Info("listening for submission events", zap.String("channel", SubmissionsChannel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var s Submission
			if err := json.Unmarshal([]byte(msg.Payload), &s); err != nil {
				logger.Warn("bad submission event", zap.Error(err))
				continue
			}
			handle(s)
		}
	}
}

// LocalEmitter delivers submissions in process. Events are dropped when the
// buffer is full rather than blocking a checkout.
type LocalEmitter struct {
	ch     chan Submission
	logger *zap.Logger
}

func NewLocalEmitter(buffer int, logger *zap.Logger) *LocalEmitter {
	return &LocalEmitter{ch: make(chan Submission, buffer), logger: logger}
}

func (e *LocalEmitter) Emit(_ context.Context, s Submission) error {
	select {
	case e.ch <- s:
	default:
		e.logger.Warn("submission event dropped", zap.String("order_id", s.OrderID))
	}
	return nil
}

// Run hands buffered events to handle until ctx is done.
func (e *LocalEmitter) Run(ctx context.Context, handle Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-e.ch:
			handle(s)
		}
	}
}
