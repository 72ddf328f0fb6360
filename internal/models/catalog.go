package models

import "time"

// Category is a membership category (general, student, ...), seed data.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// SubscriptionType is a priced subscription tier, seed data. Names follow
// the <family>-<months> convention, e.g. "ST-3".
type SubscriptionType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Months    int       `json:"months"`
	Cost      int       `json:"cost"`
	CreatedAt time.Time `json:"-"`
}

// UserCategory assigns a user to a category.
type UserCategory struct {
	ID         int64
	UserID     int64
	CategoryID int64
	CreatedAt  time.Time
}

// Subscription is a purchasable instance of a subscription type.
type Subscription struct {
	ID                 int64
	SubscriptionTypeID int64
	CreatedAt          time.Time
}

// UserSubscription binds a user to a subscription for a validity window.
type UserSubscription struct {
	ID             int64
	UserID         int64
	SubscriptionID int64
	CreatedAt      time.Time
	RemovedAt      time.Time
}
