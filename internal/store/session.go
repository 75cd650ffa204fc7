package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveSession persists the session, replacing any previous one. There is a
// single session row; signing in as a different user overwrites it.
func (s *Store) SaveSession(sess *Session) error {
	created := sess.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO session (id, email, token, user_id, device_id, created_at) VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			email = excluded.email, token = excluded.token,
			user_id = excluded.user_id, device_id = excluded.device_id,
			created_at = excluded.created_at`,
		sess.Email, sess.Token, sess.UserID, sess.DeviceID, created.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession returns the saved session, or nil when nobody is signed in.
func (s *Store) GetSession() (*Session, error) {
	sess := &Session{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT email, token, user_id, device_id, created_at FROM session WHERE id = 1`,
	).Scan(&sess.Email, &sess.Token, &sess.UserID, &sess.DeviceID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sess, nil
}

// ClearSession signs the user out locally.
func (s *Store) ClearSession() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
