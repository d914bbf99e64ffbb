package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/petrijr/wizflow/pkg/api"
)

// SQLiteEventStore stores session history events in SQLite.
type SQLiteEventStore struct {
	db *sql.DB
}

// Ensure SQLiteEventStore implements the interfaces.
var _ EventStore = (*SQLiteEventStore)(nil)

func NewSQLiteEventStore(db *sql.DB) (*SQLiteEventStore, error) {
	s := &SQLiteEventStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteEventStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS session_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			stage INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_session_events_session_id ON session_events(session_id, id);
	`)
	return err
}

func (s *SQLiteEventStore) AppendEvent(ctx context.Context, ev api.HistoryEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_events (session_id, at, type, stage, detail)
		VALUES (?, ?, ?, ?, ?)`,
		ev.SessionID,
		at.UnixNano(),
		string(ev.Type),
		int(ev.Stage),
		ev.Detail,
	)
	return err
}

func (s *SQLiteEventStore) ListEvents(ctx context.Context, sessionID string) ([]api.HistoryEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, at, type, stage, detail
		FROM session_events
		WHERE session_id = ?
		ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.HistoryEvent
	for rows.Next() {
		var (
			id     string
			atN    int64
			typ    string
			stage  int
			detail string
		)
		if err := rows.Scan(&id, &atN, &typ, &stage, &detail); err != nil {
			return nil, err
		}
		out = append(out, api.HistoryEvent{
			SessionID: id,
			At:        time.Unix(0, atN),
			Type:      api.EventType(typ),
			Stage:     api.Stage(stage),
			Detail:    detail,
		})
	}
	return out, rows.Err()
}

func (s *SQLiteEventStore) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id
		FROM session_events
		GROUP BY session_id
		ORDER BY MIN(id) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
