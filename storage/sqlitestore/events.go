package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"eventhorizon/models"
	"eventhorizon/storage"
)

func (s *SQLiteStore) CreateEvent(ctx context.Context, e *models.Event) error {
	questions, err := marshalJSON(e.CustomQuestions)
	if err != nil {
		return err
	}
	collaborators, err := marshalJSON(e.CollaboratorEmails)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (eventid, title, description, start_at, end_at,
			location, location_type, category, capacity, banner_url,
			organizerid, organizer_name, is_registration_open,
			custom_questions, collaborator_emails, participation_mode,
			max_team_size, active_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.Title, e.Description, e.Start.Unix(), e.End.Unix(),
		e.Location, e.LocationType, e.Category, e.Capacity, e.BannerURL,
		e.OrganizerID, e.OrganizerName, boolToInt(e.IsRegistrationOpen),
		questions, collaborators, e.ParticipationMode, e.MaxTeamSize,
		e.ActiveCount, e.CreatedAt.Unix(), e.UpdatedAt.Unix())
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return storage.ErrDuplicate
	}
	return err
}

const selectEvent = `
	SELECT eventid, title, description, start_at, end_at, location,
		location_type, category, capacity, banner_url, organizerid,
		organizer_name, is_registration_open, custom_questions,
		collaborator_emails, participation_mode, max_team_size,
		active_count, created_at, updated_at
	FROM events`

func (s *SQLiteStore) EventByID(ctx context.Context, id string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, selectEvent+` WHERE eventid = ?`, id)
	e, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return e, err
}

func (s *SQLiteStore) Events(ctx context.Context, q storage.EventQuery) ([]models.Event, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := selectEvent + ` WHERE 1=1`
	args := []any{}
	if q.OrganizerID != "" {
		query += ` AND organizerid = ?`
		args = append(args, q.OrganizerID)
	}
	if q.Category != "" {
		query += ` AND category = ?`
		args = append(args, q.Category)
	}
	if q.Search != "" {
		query += ` AND title LIKE ?`
		args = append(args, "%"+q.Search+"%")
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanEvent(scan func(dest ...any) error) (*models.Event, error) {
	var e models.Event
	var start, end, createdAt, updatedAt int64
	var regOpen int
	var questions, collaborators string
	err := scan(&e.EventID, &e.Title, &e.Description, &start, &end,
		&e.Location, &e.LocationType, &e.Category, &e.Capacity, &e.BannerURL,
		&e.OrganizerID, &e.OrganizerName, &regOpen, &questions,
		&collaborators, &e.ParticipationMode, &e.MaxTeamSize, &e.ActiveCount,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.Start = time.Unix(start, 0).UTC()
	e.End = time.Unix(end, 0).UTC()
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	e.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	e.IsRegistrationOpen = regOpen != 0
	if err := unmarshalJSON(questions, &e.CustomQuestions); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(collaborators, &e.CollaboratorEmails); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) UpdateEvent(ctx context.Context, e *models.Event) error {
	questions, err := marshalJSON(e.CustomQuestions)
	if err != nil {
		return err
	}
	collaborators, err := marshalJSON(e.CollaboratorEmails)
	if err != nil {
		return err
	}
	// active_count is deliberately not written here; it belongs to
	// ReserveSeat/ReleaseSeat.
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET title = ?, description = ?, start_at = ?, end_at = ?,
			location = ?, location_type = ?, category = ?, capacity = ?,
			banner_url = ?, organizer_name = ?, is_registration_open = ?,
			custom_questions = ?, collaborator_emails = ?,
			participation_mode = ?, max_team_size = ?, updated_at = ?
		WHERE eventid = ?`,
		e.Title, e.Description, e.Start.Unix(), e.End.Unix(), e.Location,
		e.LocationType, e.Category, e.Capacity, e.BannerURL, e.OrganizerName,
		boolToInt(e.IsRegistrationOpen), questions, collaborators,
		e.ParticipationMode, e.MaxTeamSize, e.UpdatedAt.Unix(), e.EventID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *SQLiteStore) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE eventid = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *SQLiteStore) ReserveSeat(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET active_count = active_count + 1
		WHERE eventid = ? AND active_count < capacity`, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// no row moved: either the event is gone or it is full
	if _, err := s.EventByID(ctx, eventID); err != nil {
		return err
	}
	return storage.ErrCapacity
}

func (s *SQLiteStore) ReleaseSeat(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET active_count = MAX(active_count - 1, 0)
		WHERE eventid = ?`, eventID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
