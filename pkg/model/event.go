package model

import "time"

type Event struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string    `json:"title" bson:"title" validate:"notblank_text"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description" bson:"description" validate:"notblank_text"`
	Overview    string    `json:"overview" bson:"overview" validate:"notblank_text"`
	Image       string    `json:"image" bson:"image" validate:"notblank_text"`
	Venue       string    `json:"venue" bson:"venue" validate:"notblank_text"`
	Location    string    `json:"location" bson:"location" validate:"notblank_text"`
	Date        string    `json:"date" bson:"date" validate:"notblank_text"`
	Time        string    `json:"time" bson:"time" validate:"notblank_text"`
	Mode        string    `json:"mode" bson:"mode" validate:"notblank_text"`
	Audience    string    `json:"audience" bson:"audience" validate:"notblank_text"`
	Agenda      []string  `json:"agenda" bson:"agenda" validate:"required,min=1"`
	Organizer   string    `json:"organizer" bson:"organizer" validate:"notblank_text"`
	Tags        []string  `json:"tags" bson:"tags" validate:"required,min=1"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// EventUpdate is a partial update; nil fields are left unchanged.
type EventUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Overview    *string   `json:"overview,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Venue       *string   `json:"venue,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Time        *string   `json:"time,omitempty"`
	Mode        *string   `json:"mode,omitempty"`
	Audience    *string   `json:"audience,omitempty"`
	Agenda      *[]string `json:"agenda,omitempty"`
	Organizer   *string   `json:"organizer,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}
