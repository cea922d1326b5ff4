// Package tracking looks up remote orders and turns their status into the
// five-stage progress shown to shoppers, either on request or as a live
// websocket stream.
package tracking

import (
	"errors"
	"fmt"
)

// Order statuses as reported by the remote API.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

var ErrUnknownStatus = errors.New("tracking: unknown order status")

type statusInfo struct {
	Value string
	Label string
	Color string
}

// stages is the ordered progress scale. Cancelled is not on it.
var stages = []statusInfo{
	{StatusPending, "Pending", "orange"},
	{StatusConfirmed, "Confirmed", "blue"},
	{StatusProcessing, "Processing", "yellow"},
	{StatusShipped, "Shipped", "purple"},
	{StatusDelivered, "Delivered", "green"},
}

var cancelled = statusInfo{StatusCancelled, "Cancelled", "red"}

type Stage struct {
	Status    string `json:"status"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

type Progress struct {
	Status    string  `json:"status"`
	Label     string  `json:"label"`
	Color     string  `json:"color"`
	Percent   float64 `json:"percent"`
	Cancelled bool    `json:"cancelled"`
	Known     bool    `json:"known"`
	Stages    []Stage `json:"stages"`
}

func stageIndex(status string) int {
	for i, s := range stages {
		if s.Value == status {
			return i
		}
	}
	return -1
}

// Label is the display label of status, or status itself when unknown.
func Label(status string) string {
	if status == StatusCancelled {
		return cancelled.Label
	}
	if i := stageIndex(status); i >= 0 {
		return stages[i].Label
	}
	return status
}

// ProgressOf maps a status onto the stage scale. Stages up to and including
// the current one are completed and percent is (index+1)/5*100. A cancelled
// order has no completed stage and percent 0. An unknown status still returns
// a renderable Progress along with ErrUnknownStatus.
func ProgressOf(status string) (Progress, error) {
	p := Progress{Status: status, Label: status, Color: "gray", Stages: make([]Stage, len(stages))}
	idx := stageIndex(status)
	for i, s := range stages {
		p.Stages[i] = Stage{
			Status:    s.Value,
			Label:     s.Label,
			Completed: idx >= 0 && i <= idx,
			Current:   i == idx,
		}
	}

	switch {
	case status == StatusCancelled:
		p.Label, p.Color = cancelled.Label, cancelled.Color
		p.Cancelled, p.Known = true, true
	case idx >= 0:
		p.Label, p.Color = stages[idx].Label, stages[idx].Color
		p.Percent = float64(idx+1) / float64(len(stages)) * 100
		p.Known = true
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return p, nil
}
