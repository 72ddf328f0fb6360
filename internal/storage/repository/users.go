package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/membership-service/internal/models"
)

// GetUserByEmail returns the user holding an active binding for the given
// email address, or ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT u.id, u.first_name, u.last_name, u.password_hash, u.birth_date,
			      u.created_at, u.confirmed
			  FROM app_user u
			  JOIN user_email ue ON ue.user_id = u.id AND ue.removed_at > now()
			  JOIN email_address e ON e.id = ue.email_id
			  WHERE e.email_address = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var birthDate sql.NullTime
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.PasswordHash,
		&birthDate, &u.CreatedAt, &u.Confirmed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if birthDate.Valid {
		u.BirthDate = &birthDate.Time
	}
	return u, nil
}

// GetUser returns the user by id, or ErrUserNotFound.
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT id, first_name, last_name, password_hash, birth_date, created_at, confirmed
			  FROM app_user
			  WHERE id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userID)

	var birthDate sql.NullTime
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.PasswordHash,
		&birthDate, &u.CreatedAt, &u.Confirmed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if birthDate.Valid {
		u.BirthDate = &birthDate.Time
	}
	return u, nil
}

// ConfirmEmailByToken marks the active email binding carrying the token as
// confirmed, together with its user. Returns ErrTokenNotFound when the token
// matches no active binding.
func (s *Storage) ConfirmEmailByToken(ctx context.Context, token string) error {
	const op = "storage.ConfirmEmailByToken"

	query := `UPDATE user_email SET confirmed = TRUE
			  WHERE confirmation_token = $1 AND removed_at > now()
			  RETURNING user_id`
	var userID int64
	if err := s.DB.QueryRowContext(ctx, query, token).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE app_user SET confirmed = TRUE WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConfirmPhoneByToken marks the active phone binding carrying the token as
// confirmed.
func (s *Storage) ConfirmPhoneByToken(ctx context.Context, token string) error {
	const op = "storage.ConfirmPhoneByToken"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE user_phone SET confirmed = TRUE
		 WHERE confirmation_token = $1 AND removed_at > now()`, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrTokenNotFound)
	}
	return nil
}

// RemoveUnconfirmed deletes users that never confirmed and were created
// before the cutoff. Bindings cascade.
func (s *Storage) RemoveUnconfirmed(ctx context.Context, olderThan time.Duration) (int64, error) {
	const op = "storage.RemoveUnconfirmed"

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM app_user
		 WHERE confirmed = FALSE AND created_at < now() - $1::interval`,
		fmt.Sprintf("%d seconds", int64(olderThan.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
