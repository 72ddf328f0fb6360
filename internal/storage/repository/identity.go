package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/membership-service/internal/models"
)

// RegistrationTx scopes one registration call to a single read-committed
// transaction: value-entity upserts, active-binding lookups and the final
// user + binding inserts all run inside it. Rollback after Commit is a no-op.
type RegistrationTx struct {
	tx *sql.Tx
}

// BeginRegistration opens the transaction for one registration call.
func (s *Storage) BeginRegistration(ctx context.Context) (*RegistrationTx, error) {
	const op = "storage.BeginRegistration"
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RegistrationTx{tx: tx}, nil
}

// Commit commits the transaction.
func (r *RegistrationTx) Commit() error {
	return r.tx.Commit()
}

// Rollback rolls the transaction back; safe to defer after Commit.
func (r *RegistrationTx) Rollback() error {
	err := r.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// UpsertEmail inserts the email value entity if absent and returns its id.
// A duplicate value is a no-op, never an error.
func (r *RegistrationTx) UpsertEmail(ctx context.Context, address string) (int64, error) {
	const op = "storage.UpsertEmail"
	var id int64
	query := `INSERT INTO email_address (email_address)
			  VALUES ($1)
			  ON CONFLICT (email_address) DO UPDATE SET email_address = EXCLUDED.email_address
			  RETURNING id`
	if err := r.tx.QueryRowContext(ctx, query, address).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpsertPhone inserts the phone value entity if absent and returns its id.
func (r *RegistrationTx) UpsertPhone(ctx context.Context, number string) (int64, error) {
	const op = "storage.UpsertPhone"
	var id int64
	query := `INSERT INTO phone_number (phone_number)
			  VALUES ($1)
			  ON CONFLICT (phone_number) DO UPDATE SET phone_number = EXCLUDED.phone_number
			  RETURNING id`
	if err := r.tx.QueryRowContext(ctx, query, number).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpsertDevice inserts the device value entity if absent and returns its id.
// The display name is kept from the first insert.
func (r *RegistrationTx) UpsertDevice(ctx context.Context, serial, name string) (int64, error) {
	const op = "storage.UpsertDevice"
	var id int64
	query := `INSERT INTO device (device_sn, device_name)
			  VALUES ($1, $2)
			  ON CONFLICT (device_sn) DO UPDATE SET device_sn = EXCLUDED.device_sn
			  RETURNING id`
	if err := r.tx.QueryRowContext(ctx, query, serial, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ActiveUserIDsByEmail returns users holding an active binding for the
// email value entity.
func (r *RegistrationTx) ActiveUserIDsByEmail(ctx context.Context, emailID int64) ([]int64, error) {
	const op = "storage.ActiveUserIDsByEmail"
	query := `SELECT user_id FROM user_email
			  WHERE email_id = $1 AND removed_at > now()`
	return r.activeUserIDs(ctx, op, query, emailID)
}

// ActiveUserIDsByPhone returns users holding an active binding for the
// phone value entity.
func (r *RegistrationTx) ActiveUserIDsByPhone(ctx context.Context, phoneID int64) ([]int64, error) {
	const op = "storage.ActiveUserIDsByPhone"
	query := `SELECT user_id FROM user_phone
			  WHERE phone_id = $1 AND removed_at > now()`
	return r.activeUserIDs(ctx, op, query, phoneID)
}

// ActiveUserIDsByDevice returns users holding an active binding for the
// device value entity.
func (r *RegistrationTx) ActiveUserIDsByDevice(ctx context.Context, deviceID int64) ([]int64, error) {
	const op = "storage.ActiveUserIDsByDevice"
	query := `SELECT user_id FROM user_device
			  WHERE device_id = $1 AND removed_at > now()`
	return r.activeUserIDs(ctx, op, query, deviceID)
}

func (r *RegistrationTx) activeUserIDs(ctx context.Context, op, query string, valueID int64) ([]int64, error) {
	rows, err := r.tx.QueryContext(ctx, query, valueID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// InsertUser inserts the app_user row and returns its id. Called only after
// every field passed validation and availability checks.
func (r *RegistrationTx) InsertUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.InsertUser"
	var id int64
	query := `INSERT INTO app_user (first_name, last_name, password_hash, birth_date, confirmed)
			  VALUES ($1, $2, $3, $4, FALSE)
			  RETURNING id`
	if err := r.tx.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.PasswordHash, user.BirthDate).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// BindEmail creates the active user-email binding. Losing the race for the
// value entity surfaces as *models.FieldConflictError.
func (r *RegistrationTx) BindEmail(ctx context.Context, userID, emailID int64, token string) error {
	const op = "storage.BindEmail"
	query := `INSERT INTO user_email (user_id, email_id, confirmed, confirmation_token)
			  VALUES ($1, $2, FALSE, $3)`
	if _, err := r.tx.ExecContext(ctx, query, userID, emailID, token); err != nil {
		return fmt.Errorf("%s: %w", op, conflictError(err))
	}
	return nil
}

// BindPhone creates the active user-phone binding.
func (r *RegistrationTx) BindPhone(ctx context.Context, userID, phoneID int64, token string) error {
	const op = "storage.BindPhone"
	query := `INSERT INTO user_phone (user_id, phone_id, confirmed, confirmation_token)
			  VALUES ($1, $2, FALSE, $3)`
	if _, err := r.tx.ExecContext(ctx, query, userID, phoneID, token); err != nil {
		return fmt.Errorf("%s: %w", op, conflictError(err))
	}
	return nil
}

// BindDevice creates the active user-device binding.
func (r *RegistrationTx) BindDevice(ctx context.Context, userID, deviceID int64) error {
	const op = "storage.BindDevice"
	query := `INSERT INTO user_device (user_id, device_id)
			  VALUES ($1, $2)`
	if _, err := r.tx.ExecContext(ctx, query, userID, deviceID); err != nil {
		return fmt.Errorf("%s: %w", op, conflictError(err))
	}
	return nil
}

// conflictError maps unique-index violations on the active-binding indexes
// to the field-level conflict error; anything else passes through.
func conflictError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "uq_user_email_active":
		return &models.FieldConflictError{Field: models.FieldEmail}
	case "uq_user_phone_active":
		return &models.FieldConflictError{Field: models.FieldPhone}
	case "uq_user_device_active":
		return &models.FieldConflictError{Field: models.FieldDevice}
	}
	return err
}
