package sqlitestore

import (
	"context"
	"time"

	"eventhorizon/models"
)

func (s *SQLiteStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (notificationid, userid, eventid, title,
			body, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.NotificationID, n.UserID, n.EventID, n.Title, n.Body,
		boolToInt(n.Read), n.CreatedAt.Unix())
	return err
}

func (s *SQLiteStore) NotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT notificationid, userid, eventid, title, body, is_read, created_at
		FROM notifications WHERE userid = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var read int
		var createdAt int64
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.EventID,
			&n.Title, &n.Body, &read, &createdAt); err != nil {
			return nil, err
		}
		n.Read = read != 0
		n.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1 WHERE notificationid = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, m *models.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (messageid, eventid, senderid, sender_name, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.MessageID, m.EventID, m.SenderID, m.SenderName, m.Text,
		m.CreatedAt.UnixNano())
	return err
}

func (s *SQLiteStore) MessagesByEvent(ctx context.Context, eventID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT messageid, eventid, senderid, sender_name, text, created_at
		FROM messages WHERE eventid = ? ORDER BY created_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Message{}
	for rows.Next() {
		var m models.Message
		var createdAt int64
		if err := rows.Scan(&m.MessageID, &m.EventID, &m.SenderID,
			&m.SenderName, &m.Text, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateReview(ctx context.Context, rv *models.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (reviewid, eventid, userid, username, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rv.ReviewID, rv.EventID, rv.UserID, rv.UserName, rv.Rating,
		rv.Comment, rv.CreatedAt.Unix())
	return err
}

func (s *SQLiteStore) ReviewsByEvent(ctx context.Context, eventID string) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reviewid, eventid, userid, username, rating, comment, created_at
		FROM reviews WHERE eventid = ? ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		var rv models.Review
		var createdAt int64
		if err := rows.Scan(&rv.ReviewID, &rv.EventID, &rv.UserID,
			&rv.UserName, &rv.Rating, &rv.Comment, &createdAt); err != nil {
			return nil, err
		}
		rv.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, rv)
	}
	return out, rows.Err()
}
