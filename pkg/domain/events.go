package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBlockRendered EventType = "block_rendered"
	EventBlockFault    EventType = "block_fault"
	EventStepEnter     EventType = "step_enter"
	EventStepLeave     EventType = "step_leave"
	EventWizardDone    EventType = "wizard_done"
)

// BlockEvent describes the outcome of rendering one block.
type BlockEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	BlockID   string    `json:"block_id"`
	BlockType string    `json:"block_type"`
	Route     string    `json:"route"`
	// Fault carries the recovered error text for EventBlockFault.
	Fault string `json:"fault,omitempty"`
}

// StepEvent describes a wizard transition.
type StepEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	StepID    string    `json:"step_id"`
	StepIndex int       `json:"step_index"`
}

// LifecycleHooks defines callbacks for observability. All hooks are optional
// and must not block; they run synchronously on the serving path.
type LifecycleHooks struct {
	OnBlockRendered func(context.Context, *BlockEvent)
	OnBlockFault    func(context.Context, *BlockEvent)
	OnStepEnter     func(context.Context, *StepEvent)
	OnStepLeave     func(context.Context, *StepEvent)
	OnWizardDone    func(context.Context, *StepEvent)
}
