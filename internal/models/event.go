package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusArchived  EventStatus = "archived"
)

func (s EventStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

type Event struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Name           string      `gorm:"not null" json:"name"`
	Description    string      `gorm:"type:text" json:"description"`
	Location       string      `json:"location"`
	Lat            *float64    `json:"lat"`
	Lng            *float64    `json:"lng"`
	Date           time.Time   `gorm:"type:date;index" json:"date"`
	Time           string      `gorm:"type:varchar(8)" json:"time"`
	AgeRestriction *int        `json:"age_restriction"`
	Price          float64     `gorm:"type:decimal(10,2);default:0" json:"price"`
	ImageURL       *string     `gorm:"type:varchar(500)" json:"image_url"`
	Status         EventStatus `gorm:"type:varchar(20);not null;default:'published';index" json:"status"`
	Capacity       int         `gorm:"not null;default:0" json:"capacity"`
	AvailableSpots int         `gorm:"not null;default:0" json:"available_spots"`
	OwnerID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner          *User       `gorm:"foreignKey:OwnerID" json:"-"`
	// PrimaryGenreID mirrors the first linked genre for legacy single-genre
	// lookups; the event_genres join table is the source of truth.
	PrimaryGenreID *uuid.UUID `gorm:"type:uuid" json:"genre_id"`
	Genres         []Genre    `gorm:"many2many:event_genres;constraint:OnDelete:CASCADE" json:"genres"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
