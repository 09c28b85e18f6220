package models

import "time"

// Event types published when user data changes.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionDeleted = "transaction.deleted"
	EventMonthlyDigest      = "digest.monthly"
)

// Event represents a change or report concerning a single user.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"` // e.g., "transaction.created", "digest.monthly"
	UserUUID  string      `json:"userUuid"`
	Kind      Kind        `json:"kind,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
