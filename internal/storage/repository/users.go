package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, password_hash, role, is_active, first_name,
			      last_name, email, profile_picture, country, created_on, updated_on)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING uid;`
	if err := s.q(ctx).QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Role, user.IsActive, user.FirstName,
		user.LastName, user.Email, user.ProfilePicture, user.Country,
		user.CreatedOn, user.UpdatedOn).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, role, is_active, first_name,
			      last_name, email, profile_picture, country, created_on, updated_on
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.q(ctx).QueryRowContext(ctx, query, username), op)
}

// GetUserByUID возвращает пользователя по его UID.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, role, is_active, first_name,
			      last_name, email, profile_picture, country, created_on, updated_on
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.q(ctx).QueryRowContext(ctx, query, userUID), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var firstName, lastName, email, profilePicture sql.NullString
	if err := row.Scan(&u.UUID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive,
		&firstName, &lastName, &email, &profilePicture, &u.Country,
		&u.CreatedOn, &u.UpdatedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.Email = email.String
	u.ProfilePicture = profilePicture.String
	return u, nil
}

// UpdateUserDetails перезаписывает профильные поля пользователя целиком.
func (s *Storage) UpdateUserDetails(ctx context.Context, userUID, firstName, lastName, email, profilePicture string) error {
	const op = "storage.UpdateUserDetails"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_name = $1,
			      last_name = $2,
			      email = $3,
			      profile_picture = $4,
			      updated_on = now()
			  WHERE uid = $5`
	res, err := s.q(ctx).ExecContext(ctx, query, firstName, lastName, email, profilePicture, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.requireOneRow(res, op, models.ErrUserNotFound)
}

// UpdateUserActive устанавливает признак активности учётной записи.
func (s *Storage) UpdateUserActive(ctx context.Context, userUID string, isActive bool) error {
	const op = "storage.UpdateUserActive"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_active = $1,
			      updated_on = now()
			  WHERE uid = $2`
	res, err := s.q(ctx).ExecContext(ctx, query, isActive, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.requireOneRow(res, op, models.ErrUserNotFound)
}

// UpdateUserRole устанавливает роль пользователя.
func (s *Storage) UpdateUserRole(ctx context.Context, userUID, role string) error {
	const op = "storage.UpdateUserRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET role = $1,
			      updated_on = now()
			  WHERE uid = $2`
	res, err := s.q(ctx).ExecContext(ctx, query, role, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.requireOneRow(res, op, models.ErrUserNotFound)
}

// ListAllUsers возвращает список всех пользователей.
func (s *Storage) ListAllUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListAllUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, role, is_active, first_name,
			      last_name, email, profile_picture, country, created_on, updated_on
			  FROM users
			  ORDER BY created_on`
	rows, err := s.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var firstName, lastName, email, profilePicture sql.NullString
		if err = rows.Scan(&u.UUID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive,
			&firstName, &lastName, &email, &profilePicture, &u.Country,
			&u.CreatedOn, &u.UpdatedOn); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.FirstName = firstName.String
		u.LastName = lastName.String
		u.Email = email.String
		u.ProfilePicture = profilePicture.String
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) requireOneRow(res sql.Result, op string, missing error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, missing)
	}
	return nil
}
