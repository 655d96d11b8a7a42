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

func (s *SQLiteStore) CreateTeam(ctx context.Context, t *models.Team) error {
	members, err := marshalJSON(t.Members)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO teams (teamid, name, eventid, leaderid, members,
			invite_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TeamID, t.Name, t.EventID, t.LeaderID, members, t.InviteCode,
		t.CreatedAt.Unix())
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return storage.ErrDuplicate
	}
	return err
}

const selectTeam = `
	SELECT teamid, name, eventid, leaderid, members, invite_code, created_at
	FROM teams`

func scanTeam(scan func(dest ...any) error) (*models.Team, error) {
	var t models.Team
	var members string
	var createdAt int64
	err := scan(&t.TeamID, &t.Name, &t.EventID, &t.LeaderID, &members,
		&t.InviteCode, &createdAt)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := unmarshalJSON(members, &t.Members); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) TeamByID(ctx context.Context, id string) (*models.Team, error) {
	row := s.db.QueryRowContext(ctx, selectTeam+` WHERE teamid = ?`, id)
	t, err := scanTeam(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) TeamByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	row := s.db.QueryRowContext(ctx, selectTeam+` WHERE invite_code = ?`, code)
	t, err := scanTeam(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) TeamsByEvent(ctx context.Context, eventID string) ([]models.Team, error) {
	rows, err := s.db.QueryContext(ctx,
		selectTeam+` WHERE eventid = ? ORDER BY created_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		t, err := scanTeam(rows.Scan)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// AddTeamMember rechecks the size inside a transaction so concurrent joins
// cannot race past maxSize.
func (s *SQLiteStore) AddTeamMember(ctx context.Context, teamID string, member models.TeamMember, maxSize int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectTeam+` WHERE teamid = ?`, teamID)
	t, err := scanTeam(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}
	if maxSize > 0 && len(t.Members) >= maxSize {
		return storage.ErrTeamFull
	}
	t.Members = append(t.Members, member)

	members, err := marshalJSON(t.Members)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE teams SET members = ? WHERE teamid = ?`, members, teamID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectTeam+` WHERE teamid = ?`, teamID)
	t, err := scanTeam(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}
	kept := t.Members[:0]
	for _, m := range t.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	t.Members = kept

	members, err := marshalJSON(t.Members)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE teams SET members = ? WHERE teamid = ?`, members, teamID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeleteTeam(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE teamid = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
