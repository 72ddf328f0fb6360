// Package models contains the domain model of the membership service:
// users, the deduplicated identity value entities (email address, phone
// number, device) and the binding rows that associate them with users.
package models

import "time"

// NeverRemoved is the far-future sentinel stored in removed_at while a
// binding is active. A binding is active iff removed_at is after now.
var NeverRemoved = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

// User represents a registered user of the service.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	PasswordHash string
	BirthDate    *time.Time
	CreatedAt    time.Time
	Confirmed    bool
}

// EmailAddress is a deduplicated email value entity, unique by address.
type EmailAddress struct {
	ID        int64
	Address   string
	CreatedAt time.Time
}

// PhoneNumber is a deduplicated phone value entity, unique by number.
type PhoneNumber struct {
	ID        int64
	Number    string
	CreatedAt time.Time
}

// Device is a deduplicated device value entity, unique by serial number.
type Device struct {
	ID           int64
	Name         string
	SerialNumber string
	CreatedAt    time.Time
}

// UserEmail binds a user to an email address for a validity window.
type UserEmail struct {
	ID                int64
	UserID            int64
	EmailID           int64
	CreatedAt         time.Time
	Confirmed         bool
	ConfirmationToken string
	RemovedAt         time.Time
}

// UserPhone binds a user to a phone number for a validity window.
type UserPhone struct {
	ID                int64
	UserID            int64
	PhoneID           int64
	CreatedAt         time.Time
	Confirmed         bool
	ConfirmationToken string
	RemovedAt         time.Time
}

// UserDevice binds a user to a device for a validity window.
type UserDevice struct {
	ID        int64
	UserID    int64
	DeviceID  int64
	CreatedAt time.Time
	RemovedAt time.Time
}
