package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/petrijr/wizflow/pkg/api"
)

// SQLiteDirectory is a Directory backed by SQLite.
type SQLiteDirectory struct {
	db *sql.DB
}

// Ensure SQLiteDirectory implements Directory.
var _ Directory = (*SQLiteDirectory)(nil)

// NewSQLiteDirectory initializes the required schema in the given database
// and returns a new SQLiteDirectory.
func NewSQLiteDirectory(db *sql.DB) (*SQLiteDirectory, error) {
	d := &SQLiteDirectory{db: db}
	if err := d.initSchema(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *SQLiteDirectory) initSchema() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			password_hash BLOB NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			surname TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT '',
			country_tag TEXT NOT NULL DEFAULT ''
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email) WHERE email <> '';
		CREATE TABLE IF NOT EXISTS delivery_methods (
			id INTEGER PRIMARY KEY,
			display_name TEXT NOT NULL,
			lead_time_ns INTEGER NOT NULL DEFAULT 0,
			cost_label TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL
		);
	`)
	return err
}

func (d *SQLiteDirectory) SaveAccount(ctx context.Context, acc Account) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, name, surname, phone_number, country_tag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			password_hash = excluded.password_hash,
			name = excluded.name,
			surname = excluded.surname,
			phone_number = excluded.phone_number,
			country_tag = excluded.country_tag`,
		acc.ID,
		acc.Username,
		strings.ToLower(acc.Email),
		acc.PasswordHash,
		acc.Name,
		acc.Surname,
		acc.PhoneNumber,
		acc.CountryTag,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateAccount
	}
	return err
}

func (d *SQLiteDirectory) FindAccount(ctx context.Context, identifier string) (Account, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, name, surname, phone_number, country_tag
		FROM accounts
		WHERE username = ? OR (email <> '' AND email = ?)
		LIMIT 1`,
		identifier,
		strings.ToLower(identifier),
	)

	var acc Account
	err := row.Scan(
		&acc.ID,
		&acc.Username,
		&acc.Email,
		&acc.PasswordHash,
		&acc.Name,
		&acc.Surname,
		&acc.PhoneNumber,
		&acc.CountryTag,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return acc, nil
}

func (d *SQLiteDirectory) SaveDeliveryMethod(ctx context.Context, m api.DeliveryMethod) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO delivery_methods (id, display_name, lead_time_ns, cost_label, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM delivery_methods))
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			lead_time_ns = excluded.lead_time_ns,
			cost_label = excluded.cost_label`,
		m.ID,
		m.DisplayName,
		int64(m.EstimatedLeadTime),
		m.CostLabel,
	)
	return err
}

func (d *SQLiteDirectory) ListDeliveryMethods(ctx context.Context) ([]api.DeliveryMethod, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, display_name, lead_time_ns, cost_label
		FROM delivery_methods
		ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []api.DeliveryMethod{}
	for rows.Next() {
		var (
			m    api.DeliveryMethod
			lead int64
		)
		if err := rows.Scan(&m.ID, &m.DisplayName, &lead, &m.CostLabel); err != nil {
			return nil, err
		}
		m.EstimatedLeadTime = time.Duration(lead)
		out = append(out, m)
	}
	return out, rows.Err()
}
