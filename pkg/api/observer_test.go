package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

//
// Helpers
//

// testObserver counts calls and remembers the last arguments.
type testObserver struct {
	mu sync.Mutex

	starts, ends, applied, advances, messages, calls int

	lastEvent   Event
	lastFrom    Stage
	lastTo      Stage
	lastMessage Message
	lastCall    string
	lastErr     error
	lastDur     time.Duration
}

func (o *testObserver) OnSessionStart(ctx context.Context, sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts++
}

func (o *testObserver) OnEventApplied(ctx context.Context, sessionID string, ev Event, state WizardState, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.applied++
	o.lastEvent = ev
}

func (o *testObserver) OnStageAdvanced(ctx context.Context, sessionID string, from, to Stage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.advances++
	o.lastFrom, o.lastTo = from, to
}

func (o *testObserver) OnMessage(ctx context.Context, sessionID string, msg Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages++
	o.lastMessage = msg
}

func (o *testObserver) OnCollaboratorCall(ctx context.Context, sessionID string, call string, err error, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.lastCall, o.lastErr, o.lastDur = call, err, d
}

func (o *testObserver) OnSessionEnd(ctx context.Context, sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ends++
}

// recordingHandler is a minimal slog.Handler that just records log records.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(name string) slog.Handler { return h }

func attrsToMap(r slog.Record) map[string]any {
	m := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

//
// NoopObserver
//

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	ctx := context.Background()
	var o Observer = NoopObserver{}

	o.OnSessionStart(ctx, "s")
	o.OnEventApplied(ctx, "s", NextButtonClicked{}, WizardState{}, time.Millisecond)
	o.OnStageAdvanced(ctx, "s", StageRecipientData, StageDeliveryMethod)
	o.OnMessage(ctx, "s", MessageLoadingData)
	o.OnCollaboratorCall(ctx, "s", "sign_in", errors.New("boom"), time.Second)
	o.OnSessionEnd(ctx, "s")
}

//
// CompositeObserver
//

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	o := NewCompositeObserver()
	if _, ok := o.(NoopObserver); !ok {
		t.Fatalf("expected NewCompositeObserver() to return NoopObserver, got %T", o)
	}
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &testObserver{}
	o := NewCompositeObserver(single, nil)

	if got, ok := o.(*testObserver); !ok || got != single {
		t.Fatalf("expected the single non-nil observer to be returned, got %T (%p)", o, o)
	}
}

func TestCompositeObserver_ForwardsAllEvents(t *testing.T) {
	ctx := context.Background()

	o1 := &testObserver{}
	o2 := &testObserver{}
	co, ok := NewCompositeObserver(o1, o2).(*CompositeObserver)
	if !ok {
		t.Fatalf("expected *CompositeObserver")
	}

	err := errors.New("call failed")
	co.OnSessionStart(ctx, "s")
	co.OnEventApplied(ctx, "s", SignInConfirmed{}, WizardState{}, 0)
	co.OnStageAdvanced(ctx, "s", StageRecipientData, StageDeliveryMethod)
	co.OnMessage(ctx, "s", MessageUserNotFound)
	co.OnCollaboratorCall(ctx, "s", "sign_in", err, 2*time.Second)
	co.OnSessionEnd(ctx, "s")

	for i, o := range []*testObserver{o1, o2} {
		if o.starts != 1 || o.applied != 1 || o.advances != 1 || o.messages != 1 || o.calls != 1 || o.ends != 1 {
			t.Fatalf("observer %d did not receive all calls: %+v", i+1, o)
		}
		if o.lastEvent != (SignInConfirmed{}) || o.lastTo != StageDeliveryMethod || o.lastMessage != MessageUserNotFound {
			t.Fatalf("observer %d argument mismatch: %+v", i+1, o)
		}
		if o.lastCall != "sign_in" || o.lastErr != err || o.lastDur != 2*time.Second {
			t.Fatalf("observer %d call mismatch: %+v", i+1, o)
		}
	}
}

//
// LoggingObserver
//

func TestNewLoggingObserver_NilLoggerUsesDefault(t *testing.T) {
	o := NewLoggingObserver(nil)
	lo, ok := o.(*LoggingObserver)
	if !ok {
		t.Fatalf("expected *LoggingObserver, got %T", o)
	}
	if lo.Logger == nil {
		t.Fatalf("expected non-nil Logger when created with nil")
	}
}

func TestLoggingObserver_StageAdvanced(t *testing.T) {
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnStageAdvanced(context.Background(), "s-1", StageRecipientData, StageDeliveryMethod)

	if len(h.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(h.records))
	}
	rec := h.records[0]
	if rec.Level != slog.LevelInfo || rec.Message != "stage_advanced" {
		t.Fatalf("unexpected record: %v %q", rec.Level, rec.Message)
	}
	attrs := attrsToMap(rec)
	if attrs["session_id"] != "s-1" || attrs["from"] != "recipient-data" || attrs["to"] != "delivery-method" {
		t.Fatalf("unexpected attrs: %v", attrs)
	}
}

func TestLoggingObserver_LevelsDependOnOutcome(t *testing.T) {
	ctx := context.Background()
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnCollaboratorCall(ctx, "s", "fetch_delivery_options", nil, time.Millisecond)
	o.OnCollaboratorCall(ctx, "s", "sign_in", errors.New("boom"), time.Millisecond)
	o.OnMessage(ctx, "s", MessageLoadingData)
	o.OnMessage(ctx, "s", MessageConnectionError)

	want := []struct {
		level slog.Level
		msg   string
	}{
		{slog.LevelDebug, "collaborator_call"},
		{slog.LevelError, "collaborator_call"},
		{slog.LevelDebug, "message_shown"},
		{slog.LevelWarn, "message_shown"},
	}
	if len(h.records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(h.records))
	}
	for i, w := range want {
		if h.records[i].Level != w.level || h.records[i].Message != w.msg {
			t.Fatalf("record %d = %v %q, want %v %q", i, h.records[i].Level, h.records[i].Message, w.level, w.msg)
		}
	}
	if attrs := attrsToMap(h.records[1]); attrs["call"] != "sign_in" || attrs["error"] == nil {
		t.Fatalf("expected call and error attributes, got %v", attrs)
	}
}

//
// BasicMetrics
//

func TestBasicMetrics_CountersAndSnapshot(t *testing.T) {
	var m BasicMetrics
	ctx := context.Background()

	m.OnSessionStart(ctx, "a")
	m.OnSessionStart(ctx, "b")
	m.OnSessionEnd(ctx, "a")
	m.OnEventApplied(ctx, "b", NextButtonClicked{}, WizardState{}, 0)
	m.OnEventApplied(ctx, "b", NextButtonClicked{}, WizardState{}, 0)
	m.OnStageAdvanced(ctx, "b", StageRecipientData, StageDeliveryMethod)
	m.OnMessage(ctx, "b", MessageLoadingData)
	m.OnMessage(ctx, "b", MessageUserNotFound)
	m.OnCollaboratorCall(ctx, "b", "fetch_delivery_options", nil, 1*time.Second)
	m.OnCollaboratorCall(ctx, "b", "sign_in", errors.New("fail"), 3*time.Second)

	snap := m.Snapshot()
	if snap.SessionsStarted != 2 || snap.SessionsEnded != 1 || snap.ActiveSessions != 1 {
		t.Fatalf("unexpected session counters: %+v", snap)
	}
	if snap.EventsApplied != 2 || snap.StageAdvances != 1 || snap.ErrorMessages != 1 {
		t.Fatalf("unexpected event counters: %+v", snap)
	}
	if snap.CollaboratorCalls != 2 || snap.CollaboratorFailures != 1 {
		t.Fatalf("unexpected call counters: %+v", snap)
	}
	if snap.AvgCallDuration != 2*time.Second {
		t.Fatalf("AvgCallDuration=%v, want 2s", snap.AvgCallDuration)
	}
}

func TestBasicMetrics_SnapshotZeroCallsHasZeroAverage(t *testing.T) {
	var m BasicMetrics
	if snap := m.Snapshot(); snap.CollaboratorCalls != 0 || snap.AvgCallDuration != 0 {
		t.Fatalf("unexpected empty snapshot: %+v", snap)
	}
}
