package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// Level orders roles so permission checks compare numbers instead of
// chaining string comparisons.
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 2
	case RoleAdmin:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleOwner
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	IdentityKey  string    `gorm:"uniqueIndex;not null" json:"-"`
	Name         *string   `json:"name"`
	Email        string    `gorm:"index" json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	Age          *int      `json:"age"`
	Phone        *string   `gorm:"type:varchar(30)" json:"phone"`
	Location     *string   `gorm:"type:varchar(191)" json:"location"`
	Bio          *string   `gorm:"type:text" json:"bio"`
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
