package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	query := `INSERT INTO messages (id, trip_id, sender_id, receiver_id, body, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, false, NOW()) RETURNING created_on`
	return r.db.QueryRowContext(ctx, query, m.ID, m.TripID, m.SenderID, m.ReceiverID, m.Body).Scan(&m.CreatedOn)
}

func (r *messageRepository) Thread(ctx context.Context, tripID, userA, userB string) ([]domain.Message, error) {
	query := `SELECT id, trip_id, sender_id, receiver_id, body, is_read, created_on
	          FROM messages
	          WHERE trip_id = $1
	            AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
	          ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, tripID, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.TripID, &m.SenderID, &m.ReceiverID, &m.Body, &m.IsRead, &m.CreatedOn); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, tripID, receiverID string) (int64, error) {
	query := `UPDATE messages SET is_read = true WHERE trip_id = $1 AND receiver_id = $2 AND is_read = false`
	res, err := r.db.ExecContext(ctx, query, tripID, receiverID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *messageRepository) UnreadCount(ctx context.Context, userID string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM messages WHERE receiver_id = $1 AND is_read = false`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}
