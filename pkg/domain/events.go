package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeChanged    EventType = "node_changed"
	EventSectionChanged EventType = "section_changed"
	EventReconciled     EventType = "reconciled"
	EventCommand        EventType = "command"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent reports a node whose settled accessibility differs after a propagation.
type NodeEvent struct {
	EventBase
	NodeID string             `json:"node_id"`
	From   AccessibilityLevel `json:"from"`
	To     AccessibilityLevel `json:"to"`
}

// SectionEvent reports a section whose state or derived values changed.
type SectionEvent struct {
	EventBase
	Ref           SectionRef         `json:"ref"`
	Kind          SectionKind        `json:"kind"`
	Available     int                `json:"available"`
	Accessible    int                `json:"accessible"`
	Accessibility AccessibilityLevel `json:"accessibility"`
	// AutoTracked is set when the change came from reconciliation with an auto-track value.
	AutoTracked bool `json:"auto_tracked,omitempty"`
}

// CommandEvent reports an executed, undone or redone command.
type CommandEvent struct {
	EventBase
	Name    string `json:"name"`
	Undo    bool   `json:"undo,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the goroutine that raised the change, after propagation settled.
type LifecycleHooks struct {
	OnNodeChange    func(context.Context, *NodeEvent)
	OnSectionChange func(context.Context, *SectionEvent)
	OnReconcile     func(context.Context, *SectionEvent)
	OnCommand       func(context.Context, *CommandEvent)
	// OnUnsaved fires whenever auto-tracking silently mutates persisted state.
	OnUnsaved func(context.Context)
}
