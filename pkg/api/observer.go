package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from a wizard session for logging and metrics.
//
// Implementations should be fast and non-blocking; callbacks run on the
// dispatching goroutine and delay the next transition.
type Observer interface {
	// OnSessionStart is called once when a session starts its workers.
	OnSessionStart(ctx context.Context, sessionID string)

	// OnEventApplied is called after ev has been reduced into state.
	OnEventApplied(ctx context.Context, sessionID string, ev Event, state WizardState, d time.Duration)

	// OnStageAdvanced is called when a transition moved the wizard forward.
	OnStageAdvanced(ctx context.Context, sessionID string, from, to Stage)

	// OnMessage is called when a transition put a new message in the
	// pending slot.
	OnMessage(ctx context.Context, sessionID string, msg Message)

	// OnCollaboratorCall is called after each backend call returns, for
	// both successes and failures (err != nil).
	OnCollaboratorCall(ctx context.Context, sessionID string, call string, err error, d time.Duration)

	// OnSessionEnd is called once when the session is closed.
	OnSessionEnd(ctx context.Context, sessionID string)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnSessionStart(ctx context.Context, sessionID string) {}
func (NoopObserver) OnEventApplied(ctx context.Context, sessionID string, ev Event, state WizardState, d time.Duration) {
}
func (NoopObserver) OnStageAdvanced(ctx context.Context, sessionID string, from, to Stage)  {}
func (NoopObserver) OnMessage(ctx context.Context, sessionID string, msg Message)           {}
func (NoopObserver) OnCollaboratorCall(ctx context.Context, sessionID string, call string, err error, d time.Duration) {
}
func (NoopObserver) OnSessionEnd(ctx context.Context, sessionID string) {}

// CompositeObserver fans out callbacks to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards callbacks to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnSessionStart(ctx context.Context, sessionID string) {
	for _, o := range c.observers {
		o.OnSessionStart(ctx, sessionID)
	}
}

func (c *CompositeObserver) OnEventApplied(ctx context.Context, sessionID string, ev Event, state WizardState, d time.Duration) {
	for _, o := range c.observers {
		o.OnEventApplied(ctx, sessionID, ev, state, d)
	}
}

func (c *CompositeObserver) OnStageAdvanced(ctx context.Context, sessionID string, from, to Stage) {
	for _, o := range c.observers {
		o.OnStageAdvanced(ctx, sessionID, from, to)
	}
}

func (c *CompositeObserver) OnMessage(ctx context.Context, sessionID string, msg Message) {
	for _, o := range c.observers {
		o.OnMessage(ctx, sessionID, msg)
	}
}

func (c *CompositeObserver) OnCollaboratorCall(ctx context.Context, sessionID string, call string, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnCollaboratorCall(ctx, sessionID, call, err, d)
	}
}

func (c *CompositeObserver) OnSessionEnd(ctx context.Context, sessionID string) {
	for _, o := range c.observers {
		o.OnSessionEnd(ctx, sessionID)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs session lifecycle and
// transitions using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnSessionStart(ctx context.Context, sessionID string) {
	o.Logger.InfoContext(ctx, "session_start",
		slog.String("session_id", sessionID),
	)
}

func (o *LoggingObserver) OnEventApplied(ctx context.Context, sessionID string, ev Event, state WizardState, d time.Duration) {
	o.Logger.DebugContext(ctx, "event_applied",
		slog.String("session_id", sessionID),
		slog.String("event", ev.Kind()),
		slog.String("stage", state.Stage.String()),
		slog.Bool("recipient_valid", state.RecipientData.IsValid()),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnStageAdvanced(ctx context.Context, sessionID string, from, to Stage) {
	o.Logger.InfoContext(ctx, "stage_advanced",
		slog.String("session_id", sessionID),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
}

func (o *LoggingObserver) OnMessage(ctx context.Context, sessionID string, msg Message) {
	level := slog.LevelDebug
	if msg.IsError() {
		level = slog.LevelWarn
	}
	o.Logger.Log(ctx, level, "message_shown",
		slog.String("session_id", sessionID),
		slog.String("message", msg.Key()),
	)
}

func (o *LoggingObserver) OnCollaboratorCall(ctx context.Context, sessionID string, call string, err error, d time.Duration) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "collaborator_call",
		slog.String("session_id", sessionID),
		slog.String("call", call),
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnSessionEnd(ctx context.Context, sessionID string) {
	o.Logger.InfoContext(ctx, "session_end",
		slog.String("session_id", sessionID),
	)
}

// BasicMetrics collects simple counters and aggregate collaborator call
// durations. It implements Observer, and can be combined with LoggingObserver
// via NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	sessionsStarted      atomic.Int64
	sessionsEnded        atomic.Int64
	eventsApplied        atomic.Int64
	stageAdvances        atomic.Int64
	errorMessages        atomic.Int64
	collaboratorCalls    atomic.Int64
	collaboratorFailures atomic.Int64
	totalCallDuration    atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	SessionsStarted int64
	SessionsEnded   int64
	ActiveSessions  int64

	EventsApplied int64
	StageAdvances int64
	ErrorMessages int64

	CollaboratorCalls    int64
	CollaboratorFailures int64
	AvgCallDuration      time.Duration
}

func (m *BasicMetrics) OnSessionStart(ctx context.Context, sessionID string) {
	m.sessionsStarted.Add(1)
}

func (m *BasicMetrics) OnSessionEnd(ctx context.Context, sessionID string) {
	m.sessionsEnded.Add(1)
}

func (m *BasicMetrics) OnEventApplied(ctx context.Context, sessionID string, ev Event, state WizardState, d time.Duration) {
	m.eventsApplied.Add(1)
}

func (m *BasicMetrics) OnStageAdvanced(ctx context.Context, sessionID string, from, to Stage) {
	m.stageAdvances.Add(1)
}

func (m *BasicMetrics) OnMessage(ctx context.Context, sessionID string, msg Message) {
	if msg.IsError() {
		m.errorMessages.Add(1)
	}
}

func (m *BasicMetrics) OnCollaboratorCall(ctx context.Context, sessionID string, call string, err error, d time.Duration) {
	m.collaboratorCalls.Add(1)
	m.totalCallDuration.Add(d.Nanoseconds())
	if err != nil {
		m.collaboratorFailures.Add(1)
	}
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.sessionsStarted.Load()
	ended := m.sessionsEnded.Load()
	calls := m.collaboratorCalls.Load()
	totalNs := m.totalCallDuration.Load()

	var avg time.Duration
	if calls > 0 {
		avg = time.Duration(totalNs / calls)
	}

	return BasicMetricsSnapshot{
		SessionsStarted:      started,
		SessionsEnded:        ended,
		ActiveSessions:       started - ended,
		EventsApplied:        m.eventsApplied.Load(),
		StageAdvances:        m.stageAdvances.Load(),
		ErrorMessages:        m.errorMessages.Load(),
		CollaboratorCalls:    calls,
		CollaboratorFailures: m.collaboratorFailures.Load(),
		AvgCallDuration:      avg,
	}
}
