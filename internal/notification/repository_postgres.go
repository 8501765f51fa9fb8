package notification

import (
	"database/sql"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(userID string) ([]Notification, error) {
	rows, err := r.db.Query(`SELECT id, user_id, title, message, type, is_read, created_at
        FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt)
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *PostgresRepository) MarkRead(userID, id string) error {
	res, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkAllRead(userID string) error {
	_, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE user_id = $1`, userID)
	return err
}

func (r *PostgresRepository) Delete(userID, id string) error {
	res, err := r.db.Exec(`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
