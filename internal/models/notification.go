package models

import "time"

// Notification is an in-app message created on workflow events. Delivery
// beyond this table (email, push) is out of scope.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      *string   `db:"type" json:"type,omitempty"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
