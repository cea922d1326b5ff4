package tracking

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/models"
	"storefront/mq"
)

// Tracker is the remote order lookup.
type Tracker interface {
	TrackOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// Update types pushed on the tracking stream.
const (
	UpdateProgress  = "progress"
	UpdateSubmitted = "submitted"
)

// Update is one message on /ws/track/:id.
type Update struct {
	Type       string         `json:"type"`
	OrderID    string         `json:"orderId"`
	Progress   *Progress      `json:"progress,omitempty"`
	Submission *mq.Submission `json:"submission,omitempty"`
	Order      *models.Order  `json:"order,omitempty"`
	At         time.Time      `json:"at"`
}

func progressUpdate(o *models.Order) Update {
	p, _ := ProgressOf(o.Status)
	return Update{Type: UpdateProgress, OrderID: o.OrderID, Progress: &p, Order: o, At: o.LastChange()}
}

// Watcher polls the remote API for every order that has subscribers and
// broadcasts when its status changes. The first poll of an order only records
// its status, since new subscribers are sent the current state on connect.
type Watcher struct {
	Tracker  Tracker
	Hub      *Hub
	Interval time.Duration
	Logger   *zap.Logger

	mu   sync.Mutex
	last map[string]string
}

// Seen records the status a subscriber was just sent.
func (w *Watcher) Seen(orderID, status string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		w.last = make(map[string]string)
	}
	w.last[orderID] = status
}

func (w *Watcher) Run(ctx context.Context) {
	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	rooms := w.Hub.Rooms()
	active := make(map[string]bool, len(rooms))
	for _, id := range rooms {
		active[id] = true
		o, err := w.Tracker.TrackOrder(ctx, id)
		if err != nil {
			w.Logger.Debug("poll order", zap.String("order_id", id), zap.Error(err))
			continue
		}

		w.mu.Lock()
		if w.last == nil {
			w.last = make(map[string]string)
		}
		prev, seen := w.last[id]
		w.last[id] = o.Status
		w.mu.Unlock()

		if !seen || prev == o.Status {
			continue
		}
		data, err := json.Marshal(progressUpdate(o))
		if err != nil {
			w.Logger.Error("encode update", zap.Error(err))
			continue
		}
		w.Logger.Info("order status changed",
			zap.String("order_id", id), zap.String("from", prev), zap.String("to", o.Status))
		w.Hub.Broadcast(id, data)
	}

	w.mu.Lock()
	for id := range w.last {
		if !active[id] {
			delete(w.last, id)
		}
	}
	w.mu.Unlock()
}

// ForwardSubmissions returns an mq handler that pushes submission events to
// the room of the submitted order.
func ForwardSubmissions(hub *Hub, logger *zap.Logger) mq.Handler {
	return func(s mq.Submission) {
		if s.OrderID == "" {
			return
		}
		data, err := json.Marshal(Update{Type: UpdateSubmitted, OrderID: s.OrderID, Submission: &s, At: s.Submitted})
		if err != nil {
			logger.Error("encode submission", zap.Error(err))
			return
		}
		hub.Broadcast(s.OrderID, data)
	}
}
