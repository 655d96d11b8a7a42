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

func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (userid, name, email, password, role, bio, avatar_url,
			refresh_token, refresh_expiry, last_login, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.UserID, u.Name, u.Email, u.Password, u.Role, u.Bio, u.AvatarURL,
		u.RefreshToken, u.RefreshExpiry.Unix(), u.LastLogin.Unix(),
		u.CreatedAt.Unix(), u.UpdatedAt.Unix())
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return storage.ErrDuplicate
	}
	return err
}

func (s *SQLiteStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		selectUser+` WHERE userid = ?`, id))
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		selectUser+` WHERE email = ?`, email))
}

const selectUser = `
	SELECT userid, name, email, password, role, bio, avatar_url,
		refresh_token, refresh_expiry, last_login, created_at, updated_at
	FROM users`

func (s *SQLiteStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var refreshExpiry, lastLogin, createdAt, updatedAt int64
	err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.Bio, &u.AvatarURL, &u.RefreshToken, &refreshExpiry, &lastLogin,
		&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.RefreshExpiry = time.Unix(refreshExpiry, 0).UTC()
	u.LastLogin = time.Unix(lastLogin, 0).UTC()
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	u.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &u, nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, password = ?, role = ?, bio = ?,
			avatar_url = ?, refresh_token = ?, refresh_expiry = ?,
			last_login = ?, updated_at = ?
		WHERE userid = ?`,
		u.Name, u.Email, u.Password, u.Role, u.Bio, u.AvatarURL,
		u.RefreshToken, u.RefreshExpiry.Unix(), u.LastLogin.Unix(),
		u.UpdatedAt.Unix(), u.UserID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE userid = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
