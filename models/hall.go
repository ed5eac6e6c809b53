package models

import "time"

// Hall is a bookable venue. Pricing fields are read once at booking
// creation and never re-read for an existing booking.
type Hall struct {
	ID                  string    `bson:"id" json:"id"`
	Name                string    `bson:"name" json:"name"`
	Location            string    `bson:"location" json:"location"`
	Capacity            int       `bson:"capacity" json:"capacity"`
	BasePrice           float64   `bson:"basePrice" json:"basePrice"`
	AdditionalHourPrice float64   `bson:"additionalHourPrice" json:"additionalHourPrice"`
	Images              []string  `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}
