package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventfinder/eventfinder/config"
	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/models"
)

type genreRow struct {
	models.Genre
	EventCount int64 `json:"event_count"`
}

// ListGenres is public. It seeds the default genre set when the table is
// empty and reports how many published events each genre has.
func ListGenres(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	config.SeedGenres(db)

	var genres []genreRow
	err := db.Model(&models.Genre{}).
		Select("genres.*, COUNT(events.id) AS event_count").
		Joins("LEFT JOIN event_genres ON genres.id = event_genres.genre_id").
		Joins("LEFT JOIN events ON event_genres.event_id = events.id AND events.status = ?", models.StatusPublished).
		Group("genres.id").
		Order("genres.name ASC").
		Scan(&genres).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving genres")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"genres": genres})
}
