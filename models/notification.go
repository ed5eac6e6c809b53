package models

import "time"

// Notification is an append-only side-effect record written by the
// notifier when a domain event fires. It never carries authoritative state.
type Notification struct {
	ID             string    `bson:"id" json:"id"`
	UserID         string    `bson:"userId" json:"userId"`
	Title          string    `bson:"title" json:"title"`
	Message        string    `bson:"message" json:"message"`
	Type           string    `bson:"type" json:"type"` // info, success, warning, error
	RelatedBooking string    `bson:"relatedBooking,omitempty" json:"relatedBooking,omitempty"`
	RelatedPayment string    `bson:"relatedPayment,omitempty" json:"relatedPayment,omitempty"`
	Read           bool      `bson:"read" json:"read"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
