// Package registration implements the user registration workflow: per-field
// validation, availability checks against active identity bindings, and the
// transactional creation of the user with its email, phone and device
// bindings.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/membership-service/internal/lib/password"
	"github.com/magabrotheeeer/membership-service/internal/lib/sl"
	"github.com/magabrotheeeer/membership-service/internal/metrics"
	"github.com/magabrotheeeer/membership-service/internal/models"
	"github.com/magabrotheeeer/membership-service/internal/rabbitmq"
	"github.com/magabrotheeeer/membership-service/internal/validation"
)

// TxOps are the per-registration store operations, scoped to one
// transaction.
type TxOps interface {
	UpsertEmail(ctx context.Context, address string) (int64, error)
	UpsertPhone(ctx context.Context, number string) (int64, error)
	UpsertDevice(ctx context.Context, serial, name string) (int64, error)
	ActiveUserIDsByEmail(ctx context.Context, emailID int64) ([]int64, error)
	ActiveUserIDsByPhone(ctx context.Context, phoneID int64) ([]int64, error)
	ActiveUserIDsByDevice(ctx context.Context, deviceID int64) ([]int64, error)
	InsertUser(ctx context.Context, user models.User) (int64, error)
	BindEmail(ctx context.Context, userID, emailID int64, token string) error
	BindPhone(ctx context.Context, userID, phoneID int64, token string) error
	BindDevice(ctx context.Context, userID, deviceID int64) error
	Commit() error
	Rollback() error
}

// Store opens the transactional boundary of one registration call.
type Store interface {
	BeginRegistration(ctx context.Context) (TxOps, error)
}

// EventPublisher publishes the registered event consumed by the
// confirmation-mail sender.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service orchestrates registration calls.
type Service struct {
	store      Store
	publisher  EventPublisher
	log        *slog.Logger
	bcryptCost int
}

// New creates a registration Service. publisher may be nil when no event
// broker is configured.
func New(log *slog.Logger, store Store, publisher EventPublisher, bcryptCost int) *Service {
	return &Service{
		store:      store,
		publisher:  publisher,
		log:        log,
		bcryptCost: bcryptCost,
	}
}

// Register validates every field of req, checks the identity values against
// active bindings and, only when every field passed, commits the user and
// its three bindings as one unit. Field failures are reported in the result,
// never as an error; a non-nil error means the store failed and nothing can
// be said about the fields.
func (s *Service) Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error) {
	const op = "registration.Register"

	report := make(models.FieldReport)

	// Pure, store-independent checks run first; they never short-circuit
	// each other.
	nameV := validation.Name(req.FirstName, "first name")
	if !nameV.Valid {
		report.Set(models.FieldFirstName, models.CodeInvalid, nameV.Message)
	} else {
		report.Set(models.FieldFirstName, models.CodeAvailable, "First name valid")
	}

	lastV := validation.Name(req.LastName, "last name")
	if !lastV.Valid {
		report.Set(models.FieldLastName, models.CodeInvalid, lastV.Message)
	} else {
		report.Set(models.FieldLastName, models.CodeAvailable, "Last name valid")
	}

	var passwordHash string
	passV := validation.Password(req.Password)
	if !passV.Valid {
		report.Set(models.FieldPassword, models.CodeInvalid, passV.Message)
	} else {
		hash, err := password.Hash(req.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		passwordHash = hash
		report.Set(models.FieldPassword, models.CodeAvailable, "Password valid")
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err == nil {
			birthDate = &parsed
		} else {
			s.log.Debug("ignoring unparsable birth date", slog.String("birth_date", req.BirthDate))
		}
	}

	tx, err := s.store.BeginRegistration(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// The identity fields follow the same plan: the format branch
	// short-circuits, otherwise the value entity is inserted speculatively
	// and availability is read from the active bindings.
	emailID, err := s.checkValue(ctx, report, models.FieldEmail,
		validation.Email(req.Email), "Email already in use", "Email available",
		func() (int64, error) { return tx.UpsertEmail(ctx, req.Email) },
		func(id int64) ([]int64, error) { return tx.ActiveUserIDsByEmail(ctx, id) })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	phoneID, err := s.checkValue(ctx, report, models.FieldPhone,
		validation.Phone(req.Phone), "Phone number already in use", "Phone number available",
		func() (int64, error) { return tx.UpsertPhone(ctx, req.Phone) },
		func(id int64) ([]int64, error) { return tx.ActiveUserIDsByPhone(ctx, id) })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	deviceID, err := s.checkValue(ctx, report, models.FieldDevice,
		validation.DeviceSerial(req.DeviceSN), "Device already in use", "Device available",
		func() (int64, error) { return tx.UpsertDevice(ctx, req.DeviceSN, req.DeviceName) },
		func(id int64) ([]int64, error) { return tx.ActiveUserIDsByDevice(ctx, id) })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if report.HasErrors() {
		// Speculative value-entity inserts are kept: values are not
		// user-identifying on their own.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return &models.RegistrationResult{
			Type:   models.ResultTypeError,
			Fields: report,
		}, nil
	}

	userID, err := tx.InsertUser(ctx, models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: passwordHash,
		BirthDate:    birthDate,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	emailToken := uuid.NewString()
	phoneToken := uuid.NewString()

	bindErr := tx.BindEmail(ctx, userID, emailID, emailToken)
	if bindErr == nil {
		bindErr = tx.BindPhone(ctx, userID, phoneID, phoneToken)
	}
	if bindErr == nil {
		bindErr = tx.BindDevice(ctx, userID, deviceID)
	}
	if bindErr != nil {
		// A racer took the value between our availability read and the
		// insert; the unique index is the canonical arbiter.
		var conflict *models.FieldConflictError
		if errors.As(bindErr, &conflict) {
			_ = tx.Rollback()
			report.Set(conflict.Field, models.CodeInUse, conflictMessage(conflict.Field))
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return &models.RegistrationResult{
				Type:   models.ResultTypeError,
				Fields: report,
			}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, bindErr)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered",
		slog.Int64("user_id", userID),
		slog.String("email", req.Email))
	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if s.publisher != nil {
		event := rabbitmq.RegisteredEvent{
			UserID:                 userID,
			FirstName:              req.FirstName,
			Email:                  req.Email,
			EmailConfirmationToken: emailToken,
			PhoneConfirmationToken: phoneToken,
		}
		if err := s.publisher.Publish(rabbitmq.ConfirmationQueue.RoutingKey, event); err != nil {
			s.log.Warn("failed to publish registered event", sl.Err(err))
		}
	}

	return &models.RegistrationResult{
		Type:   models.ResultTypeSuccess,
		Fields: report,
		Data: &models.RegistrationData{
			UserID:     userID,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			EmailID:    emailID,
			Phone:      req.Phone,
			PhoneID:    phoneID,
			DeviceName: req.DeviceName,
			DeviceSN:   req.DeviceSN,
			DeviceID:   deviceID,
			BirthDate:  req.BirthDate,
		},
	}, nil
}

// checkValue runs the format-then-availability plan for one identity field
// and returns the resolved value-entity id (zero when the format failed).
func (s *Service) checkValue(
	_ context.Context,
	report models.FieldReport,
	field string,
	verdict validation.Verdict,
	inUseMsg, availableMsg string,
	upsert func() (int64, error),
	activeUsers func(id int64) ([]int64, error),
) (int64, error) {
	if !verdict.Valid {
		report.Set(field, models.CodeInvalid, verdict.Message)
		return 0, nil
	}

	id, err := upsert()
	if err != nil {
		return 0, err
	}
	holders, err := activeUsers(id)
	if err != nil {
		return 0, err
	}
	if len(holders) > 0 {
		report.Set(field, models.CodeInUse, inUseMsg)
		return id, nil
	}
	report.Set(field, models.CodeAvailable, availableMsg)
	return id, nil
}

func conflictMessage(field string) string {
	switch field {
	case models.FieldEmail:
		return "Email already in use"
	case models.FieldPhone:
		return "Phone number already in use"
	default:
		return "Device already in use"
	}
}
