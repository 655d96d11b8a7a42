package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhorizon/models"
	"eventhorizon/storage"
)

func (s *SQLiteStore) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	answers, err := marshalJSON(reg.Answers)
	if err != nil {
		return err
	}
	var attendance any
	if reg.AttendanceTime != nil {
		attendance = reg.AttendanceTime.Unix()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO registrations (registrationid, eventid, participantid,
			participant_name, participant_email, status, attended,
			attendance_time, registered_at, answers, teamid, team_name,
			is_team_leader, participation_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reg.RegistrationID, reg.EventID, reg.ParticipantID,
		reg.ParticipantName, reg.ParticipantEmail, reg.Status,
		boolToInt(reg.Attended), attendance, reg.RegisteredAt.UnixNano(),
		answers, reg.TeamID, reg.TeamName, boolToInt(reg.IsTeamLeader),
		reg.ParticipationType)
	return err
}

const selectRegistration = `
	SELECT registrationid, eventid, participantid, participant_name,
		participant_email, status, attended, attendance_time, registered_at,
		answers, teamid, team_name, is_team_leader, participation_type
	FROM registrations`

func scanRegistration(scan func(dest ...any) error) (*models.Registration, error) {
	var reg models.Registration
	var attended, isLeader int
	var attendance sql.NullInt64
	var registeredAt int64
	var answers string
	err := scan(&reg.RegistrationID, &reg.EventID, &reg.ParticipantID,
		&reg.ParticipantName, &reg.ParticipantEmail, &reg.Status, &attended,
		&attendance, &registeredAt, &answers, &reg.TeamID, &reg.TeamName,
		&isLeader, &reg.ParticipationType)
	if err != nil {
		return nil, err
	}
	reg.Attended = attended != 0
	reg.IsTeamLeader = isLeader != 0
	reg.RegisteredAt = time.Unix(0, registeredAt).UTC()
	if attendance.Valid {
		at := time.Unix(attendance.Int64, 0).UTC()
		reg.AttendanceTime = &at
	}
	if err := unmarshalJSON(answers, &reg.Answers); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *SQLiteStore) RegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx, selectRegistration+` WHERE registrationid = ?`, id)
	reg, err := scanRegistration(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return reg, err
}

func (s *SQLiteStore) queryRegistrations(ctx context.Context, query string, args ...any) ([]models.Registration, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows.Scan)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (s *SQLiteStore) RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	return s.queryRegistrations(ctx,
		selectRegistration+` WHERE eventid = ? ORDER BY registered_at ASC`, eventID)
}

func (s *SQLiteStore) RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	return s.queryRegistrations(ctx,
		selectRegistration+` WHERE participantid = ? ORDER BY registered_at ASC`, userID)
}

func (s *SQLiteStore) ActiveRegistration(ctx context.Context, eventID, participantID string) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx, selectRegistration+`
		WHERE eventid = ? AND participantid = ? AND status != ?
		LIMIT 1`, eventID, participantID, models.StatusRejected)
	reg, err := scanRegistration(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return reg, err
}

func (s *SQLiteStore) SetRegistrationStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE registrations SET status = ? WHERE registrationid = ?`, status, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *SQLiteStore) SetAttendance(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE registrations SET attended = 1, attendance_time = ?
		WHERE registrationid = ?`, at.Unix(), id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *SQLiteStore) DeleteRegistration(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE registrationid = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *SQLiteStore) OldestWaitlisted(ctx context.Context, eventID string) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx, selectRegistration+`
		WHERE eventid = ? AND status = ?
		ORDER BY registered_at ASC LIMIT 1`, eventID, models.StatusWaitlisted)
	reg, err := scanRegistration(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return reg, err
}
