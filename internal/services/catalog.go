package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/models"
)

// CatalogService is the write side of the event catalog.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Create stores a new event with its genre links. Status defaults to
// published and available_spots starts at full capacity.
func (s *CatalogService) Create(event *models.Event, genreIDs []uuid.UUID) error {
	if event.Status == "" {
		event.Status = models.StatusPublished
	}
	if !event.Status.Valid() {
		return fmt.Errorf("invalid status %q: %w", event.Status, ErrValidation)
	}
	if event.Capacity < 0 {
		event.Capacity = 0
	}
	event.AvailableSpots = event.Capacity
	if len(genreIDs) > 0 {
		event.PrimaryGenreID = &genreIDs[0]
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return replaceGenres(tx, event, genreIDs)
	})
}

// Update persists a modified event. available_spots is recomputed from the
// live registered count, never trusted from the caller, so capacity edits
// cannot drift the counter.
func (s *CatalogService) Update(event *models.Event, genreIDs []uuid.UUID, genresProvided bool) error {
	if !event.Status.Valid() {
		return fmt.Errorf("invalid status %q: %w", event.Status, ErrValidation)
	}
	if event.Capacity < 0 {
		event.Capacity = 0
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND status = ?", event.ID, models.Registered).
			Count(&used).Error; err != nil {
			return err
		}

		available := event.Capacity - int(used)
		if available < 0 {
			available = 0
		}
		event.AvailableSpots = available

		if genresProvided {
			if len(genreIDs) > 0 {
				event.PrimaryGenreID = &genreIDs[0]
			} else {
				event.PrimaryGenreID = nil
			}
		}

		if err := tx.Save(event).Error; err != nil {
			return err
		}

		if genresProvided {
			return replaceGenres(tx, event, genreIDs)
		}
		return nil
	})
}

// Delete hard-deletes an event and everything hanging off it.
func (s *CatalogService) Delete(id uuid.UUID) error {
	var event models.Event
	if err := s.db.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("event: %w", ErrNotFound)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM event_genres WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
}

func replaceGenres(tx *gorm.DB, event *models.Event, genreIDs []uuid.UUID) error {
	genres := make([]models.Genre, 0, len(genreIDs))
	if len(genreIDs) > 0 {
		if err := tx.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
			return err
		}
	}
	return tx.Model(event).Association("Genres").Replace(genres)
}
