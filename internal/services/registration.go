package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventfinder/eventfinder/internal/models"
)

// RegistrationService is the capacity-enforcing ledger. All capacity
// decisions happen inside a transaction holding a row lock on the event,
// and available_spots is always recomputed from the live registration
// count rather than incremented blindly.
type RegistrationService struct {
	db *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// CapacityInfo reports remaining spots. Available is nil when the event
// has no capacity limit.
type CapacityInfo struct {
	Capacity  int  `json:"capacity"`
	Available *int `json:"available"`
}

// lockEvent requests a row lock where the dialect supports it. SQLite
// serializes writers at the database level, so the clause is skipped there.
func lockEvent(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Register places userID on eventID. It is idempotent: an already
// registered pair returns success without touching the counter.
func (s *RegistrationService) Register(userID, eventID uuid.UUID) error {
	var event models.Event
	if err := s.db.Where("id = ? AND status <> ?", eventID, models.StatusArchived).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("event: %w", ErrNotFound)
		}
		return err
	}

	var existing models.Registration
	err := s.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&existing).Error
	if err == nil && existing.Status == models.Registered {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hasRow := err == nil

	return s.db.Transaction(func(tx *gorm.DB) error {
		var locked models.Event
		if err := lockEvent(tx).Where("id = ?", eventID).First(&locked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("event: %w", ErrNotFound)
			}
			return err
		}

		var used int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND status = ?", eventID, models.Registered).
			Count(&used).Error; err != nil {
			return err
		}

		if locked.Capacity > 0 && int(used) >= locked.Capacity {
			return fmt.Errorf("event is at capacity: %w", ErrConflict)
		}

		if hasRow {
			if err := tx.Model(&models.Registration{}).
				Where("id = ?", existing.ID).
				Update("status", models.Registered).Error; err != nil {
				return err
			}
		} else {
			registration := models.Registration{
				UserID:  userID,
				EventID: eventID,
				Status:  models.Registered,
			}
			// Concurrent first registrations for the same pair race on the
			// unique index; the conflict clause resolves the loser to an update.
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"status": models.Registered}),
			}).Create(&registration).Error; err != nil {
				return err
			}
		}

		if locked.Capacity > 0 {
			available := locked.Capacity - int(used) - 1
			if available < 0 {
				available = 0
			}
			if err := tx.Model(&models.Event{}).
				Where("id = ?", eventID).
				Update("available_spots", available).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Cancel flips an active registration to canceled and releases the spot.
// The row is kept so re-registration reuses it.
func (s *RegistrationService) Cancel(userID, eventID uuid.UUID) error {
	var existing models.Registration
	err := s.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && existing.Status != models.Registered) {
		return fmt.Errorf("registration: %w", ErrNotFound)
	}
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var locked models.Event
		if err := lockEvent(tx).Where("id = ?", eventID).First(&locked).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Registration{}).
			Where("id = ?", existing.ID).
			Update("status", models.Canceled).Error; err != nil {
			return err
		}

		if locked.Capacity > 0 {
			var used int64
			if err := tx.Model(&models.Registration{}).
				Where("event_id = ? AND status = ?", eventID, models.Registered).
				Count(&used).Error; err != nil {
				return err
			}

			available := locked.Capacity - int(used)
			if available < 0 {
				available = 0
			}
			if available > locked.Capacity {
				available = locked.Capacity
			}
			if err := tx.Model(&models.Event{}).
				Where("id = ?", eventID).
				Update("available_spots", available).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Capacity derives the live remaining count from the ledger so a drifted
// available_spots column never leaks out of a read.
func (s *RegistrationService) Capacity(eventID uuid.UUID) (*CapacityInfo, error) {
	var event models.Event
	if err := s.db.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event: %w", ErrNotFound)
		}
		return nil, err
	}

	info := &CapacityInfo{Capacity: event.Capacity}
	if event.Capacity > 0 {
		var used int64
		if err := s.db.Model(&models.Registration{}).
			Where("event_id = ? AND status = ?", eventID, models.Registered).
			Count(&used).Error; err != nil {
			return nil, err
		}

		available := event.Capacity - int(used)
		if available < 0 {
			available = 0
		}
		info.Available = &available
	}

	return info, nil
}

// Status returns the ledger row for a pair, or nil when none exists.
func (s *RegistrationService) Status(userID, eventID uuid.UUID) (*models.Registration, error) {
	var registration models.Registration
	err := s.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&registration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// ListForUser returns a user's registrations with their event details,
// newest first.
func (s *RegistrationService) ListForUser(userID uuid.UUID) ([]models.Registration, error) {
	var registrations []models.Registration
	err := s.db.Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&registrations).Error
	return registrations, err
}
