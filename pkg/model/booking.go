package model

import (
	"time"
)

type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	EventID   string    `json:"eventId" bson:"eventId" validate:"required,mongodb"`
	Email     string    `json:"email" bson:"email" validate:"booking_email"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
