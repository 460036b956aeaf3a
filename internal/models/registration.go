package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	Registered RegistrationStatus = "registered"
	Canceled   RegistrationStatus = "canceled"
)

// Registration holds at most one row per (user, event). Cancel flips the
// status instead of deleting so re-registration reuses the row and the
// unique pair constraint never has to be re-satisfied.
type Registration struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_user_event;index" json:"user_id"`
	User      *User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	EventID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_user_event;index" json:"event_id"`
	Event     *Event             `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Status    RegistrationStatus `gorm:"type:varchar(20);not null;default:'registered'" json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (registration *Registration) BeforeCreate(tx *gorm.DB) (err error) {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	return
}
