package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminAction is an append-only audit record of admin mutations.
type AdminAction struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AdminID    uuid.UUID `gorm:"type:uuid;not null;index" json:"admin_id"`
	Admin      *User     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"admin,omitempty"`
	Action     string    `gorm:"type:varchar(100);not null" json:"action"`
	TargetType string    `gorm:"type:varchar(50)" json:"target_type"`
	TargetID   string    `gorm:"type:varchar(36)" json:"target_id"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (action *AdminAction) BeforeCreate(tx *gorm.DB) (err error) {
	if action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	return
}
