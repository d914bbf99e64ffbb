package wizflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/petrijr/wizflow/pkg/api"
)

// HistoryObserver records session lifecycle events into an EventStore.
//
// Only event kinds, stages and message keys are stored, never field values
// or credentials. A failing store is logged and otherwise ignored.
type HistoryObserver struct {
	store  EventStore
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	stages map[string]api.Stage
}

var _ api.Observer = (*HistoryObserver)(nil)

// NewHistoryObserver creates a HistoryObserver writing to store. A nil
// logger falls back to slog.Default().
func NewHistoryObserver(store EventStore, logger *slog.Logger) *HistoryObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryObserver{
		store:  store,
		logger: logger,
		now:    time.Now,
		stages: make(map[string]api.Stage),
	}
}

func (h *HistoryObserver) OnSessionStart(ctx context.Context, sessionID string) {
	h.mu.Lock()
	h.stages[sessionID] = api.StageRecipientData
	h.mu.Unlock()

	h.append(ctx, sessionID, api.EventSessionStarted, api.StageRecipientData, "")
}

func (h *HistoryObserver) OnEventApplied(ctx context.Context, sessionID string, ev api.Event, state api.WizardState, d time.Duration) {
	h.mu.Lock()
	h.stages[sessionID] = state.Stage
	h.mu.Unlock()

	h.append(ctx, sessionID, api.EventApplied, state.Stage, ev.Kind())
}

func (h *HistoryObserver) OnStageAdvanced(ctx context.Context, sessionID string, from, to api.Stage) {
	h.append(ctx, sessionID, api.EventStageAdvanced, to, fmt.Sprintf("%s -> %s", from, to))
}

func (h *HistoryObserver) OnMessage(ctx context.Context, sessionID string, msg api.Message) {
	h.append(ctx, sessionID, api.EventMessageShown, h.stage(sessionID), msg.Key())
}

func (h *HistoryObserver) OnCollaboratorCall(ctx context.Context, sessionID string, call string, err error, d time.Duration) {
	typ, detail := api.EventCollaboratorCompleted, call
	if err != nil {
		typ, detail = api.EventCollaboratorFailed, fmt.Sprintf("%s: %v", call, err)
	}
	h.append(ctx, sessionID, typ, h.stage(sessionID), detail)
}

func (h *HistoryObserver) OnSessionEnd(ctx context.Context, sessionID string) {
	stage := h.stage(sessionID)
	h.mu.Lock()
	delete(h.stages, sessionID)
	h.mu.Unlock()

	h.append(ctx, sessionID, api.EventSessionEnded, stage, "")
}

func (h *HistoryObserver) stage(sessionID string) api.Stage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stages[sessionID]
}

func (h *HistoryObserver) append(ctx context.Context, sessionID string, typ api.EventType, stage api.Stage, detail string) {
	ev := api.HistoryEvent{
		SessionID: sessionID,
		At:        h.now(),
		Type:      typ,
		Stage:     stage,
		Detail:    detail,
	}
	// Collaborator calls report on contexts that may already be cancelled.
	if err := h.store.AppendEvent(context.WithoutCancel(ctx), ev); err != nil {
		h.logger.WarnContext(ctx, "history_append_failed",
			slog.String("session_id", sessionID),
			slog.String("type", string(typ)),
			slog.Any("error", err),
		)
	}
}
