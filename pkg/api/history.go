package api

import "time"

// EventType identifies a session history record.
type EventType string

const (
	EventSessionStarted EventType = "session.started"
	EventSessionEnded   EventType = "session.ended"

	EventApplied       EventType = "event.applied"
	EventStageAdvanced EventType = "stage.advanced"
	EventMessageShown  EventType = "message.shown"

	EventCollaboratorCompleted EventType = "collaborator.completed"
	EventCollaboratorFailed    EventType = "collaborator.failed"
)

// HistoryEvent is a minimal append-only history record for audit/debugging.
// It never holds field values; Detail stays small and human-oriented.
type HistoryEvent struct {
	SessionID string
	At        time.Time
	Type      EventType
	Stage     Stage

	// Small details such as an event kind, message key or error string.
	Detail string
}
