package data

import (
	"database/sql"

	"queryadmin/internal/core"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Create(e *core.AuditEntry) error {
	res, err := r.db.Exec(`INSERT INTO audit_logs (timestamp, username, action, target, status, message) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Timestamp.UTC(), e.Username, e.Action, e.Target, e.Status, e.Message)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	e.ID = id
	return nil
}

func (r *AuditRepo) GetRecent(limit int) ([]core.AuditEntry, error) {
	rows, err := r.db.Query(`SELECT id, timestamp, username, action, target, status, message FROM audit_logs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []core.AuditEntry
	for rows.Next() {
		var e core.AuditEntry
		var target, message sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Username, &e.Action, &target, &e.Status, &message); err != nil {
			return nil, err
		}
		e.Target = target.String
		e.Message = message.String

		// Stored as UTC
		e.Timestamp = e.Timestamp.Local()

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ core.AuditRepository = (*AuditRepo)(nil)
