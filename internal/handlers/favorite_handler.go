package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/models"
)

type favoriteRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
}

// ListFavorites returns the caller's favorited published events, newest
// favorite first.
func ListFavorites(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var favorites []models.Favorite
	if err := db.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving favorites")
		return
	}

	eventIDs := make([]uuid.UUID, 0, len(favorites))
	favoritedAt := make(map[uuid.UUID]models.Favorite, len(favorites))
	for _, favorite := range favorites {
		eventIDs = append(eventIDs, favorite.EventID)
		favoritedAt[favorite.EventID] = favorite
	}

	var events []models.Event
	if len(eventIDs) > 0 {
		if err := db.Preload("Genres").Preload("Owner").
			Where("id IN ? AND status = ?", eventIDs, models.StatusPublished).
			Find(&events).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving favorites")
			return
		}
	}

	byID := make(map[uuid.UUID]models.Event, len(events))
	for _, event := range events {
		byID[event.ID] = event
	}

	items := make([]gin.H, 0, len(events))
	for _, favorite := range favorites {
		event, ok := byID[favorite.EventID]
		if !ok {
			continue
		}

		genres := make([]string, 0, len(event.Genres))
		slugs := make([]string, 0, len(event.Genres))
		icons := make([]string, 0, len(event.Genres))
		for _, genre := range event.Genres {
			genres = append(genres, genre.Name)
			slugs = append(slugs, genre.Slug)
			icons = append(icons, genre.Icon)
		}

		item := gin.H{
			"id":           event.ID,
			"name":         event.Name,
			"location":     event.Location,
			"date":         event.Date.Format(dateLayout),
			"time":         event.Time,
			"price":        event.Price,
			"image_url":    event.ImageURL,
			"genres":       genres,
			"genre_slugs":  slugs,
			"genre_icons":  icons,
			"favorited_at": favorite.CreatedAt,
		}
		if event.Owner != nil {
			item["owner_name"] = event.Owner.Name
		}
		items = append(items, item)
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{
		"favorites": items,
		"count":     len(items),
	})
}

// AddFavorite is idempotent: favoriting twice succeeds without a duplicate
// row.
func AddFavorite(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "event_id is required")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var event models.Event
	err := db.Where("id = ? AND status = ?", req.EventID, models.StatusPublished).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error adding favorite")
		return
	}

	favorite := models.Favorite{UserID: user.ID, EventID: req.EventID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error adding favorite")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"message": "Event added to favorites"})
}

func RemoveFavorite(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event_id")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	result := db.Where("user_id = ? AND event_id = ?", user.ID, eventID).Delete(&models.Favorite{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error removing favorite")
		return
	}

	message := "Event removed from favorites"
	if result.RowsAffected == 0 {
		message = "Event was not in favorites"
	}
	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"message": message})
}
