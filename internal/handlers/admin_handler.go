package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/models"
	"github.com/eventfinder/eventfinder/internal/services"
)

// eventRequest covers both create and update; nil means "not provided" so
// updates can be partial.
type eventRequest struct {
	Name           *string      `json:"name"`
	Description    *string      `json:"description"`
	Location       *string      `json:"location"`
	Date           *string      `json:"date"`
	Time           *string      `json:"time"`
	Lat            *float64     `json:"lat"`
	Lng            *float64     `json:"lng"`
	AgeRestriction *int         `json:"age_restriction"`
	Price          *float64     `json:"price"`
	ImageURL       *string      `json:"image_url"`
	Status         *string      `json:"status"`
	Capacity       *int         `json:"capacity"`
	Genres         *[]uuid.UUID `json:"genres"`
}

// AdminListEvents returns every event including drafts.
func AdminListEvents(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	events, err := services.NewEventQuery(db).ListAll()
	if err != nil {
		handleServiceError(c, err, "Event", "Error retrieving events")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"events": events})
}

func AdminCreateEvent(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	for field, value := range map[string]*string{
		"Name": req.Name, "Description": req.Description, "Date": req.Date,
		"Time": req.Time, "Location": req.Location,
	} {
		if value == nil || *value == "" {
			helpers.RespondWithError(c, http.StatusUnprocessableEntity, field+" is required")
			return
		}
	}

	date, err := time.Parse(dateLayout, *req.Date)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnprocessableEntity, "Invalid date, expected YYYY-MM-DD")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	event := models.Event{
		Name:           *req.Name,
		Description:    *req.Description,
		Location:       *req.Location,
		Date:           date,
		Time:           *req.Time,
		Lat:            req.Lat,
		Lng:            req.Lng,
		AgeRestriction: req.AgeRestriction,
		ImageURL:       req.ImageURL,
		OwnerID:        admin.ID,
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}

	var genreIDs []uuid.UUID
	if req.Genres != nil {
		genreIDs = *req.Genres
	}

	if err := services.NewCatalogService(db).Create(&event, genreIDs); err != nil {
		handleServiceError(c, err, "Event", "Failed to create event")
		return
	}

	services.NewAuditLogger(db).Log(admin.ID, "create_event", "event", event.ID.String(),
		gin.H{"name": event.Name}, c.ClientIP())

	helpers.RespondWithSuccess(c, http.StatusCreated, gin.H{
		"event_id": event.ID,
		"message":  "Event created successfully",
	})
}

func AdminUpdateEvent(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event ID required")
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var event models.Event
	if err := db.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event")
		return
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnprocessableEntity, "Invalid date, expected YYYY-MM-DD")
			return
		}
		event.Date = date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Lat != nil {
		event.Lat = req.Lat
	}
	if req.Lng != nil {
		event.Lng = req.Lng
	}
	if req.AgeRestriction != nil {
		event.AgeRestriction = req.AgeRestriction
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.ImageURL != nil {
		event.ImageURL = req.ImageURL
	}
	if req.Status != nil {
		event.Status = models.EventStatus(*req.Status)
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}

	var genreIDs []uuid.UUID
	if req.Genres != nil {
		genreIDs = *req.Genres
	}

	if err := services.NewCatalogService(db).Update(&event, genreIDs, req.Genres != nil); err != nil {
		handleServiceError(c, err, "Event", "Failed to update event")
		return
	}

	services.NewAuditLogger(db).Log(admin.ID, "update_event", "event", event.ID.String(),
		req, c.ClientIP())

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"message": "Event updated successfully"})
}

func AdminDeleteEvent(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event ID required")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var event models.Event
	if err := db.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event")
		return
	}

	if err := services.NewCatalogService(db).Delete(eventID); err != nil {
		handleServiceError(c, err, "Event", "Failed to delete event")
		return
	}

	if event.ImageURL != nil && strings.HasPrefix(*event.ImageURL, "uploads") {
		if err := helpers.DeleteFile(*event.ImageURL); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove image for event %s: %v", eventID, err)
		}
	}

	services.NewAuditLogger(db).Log(admin.ID, "delete_event", "event", eventID.String(),
		gin.H{"name": event.Name}, c.ClientIP())

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// AdminStats serves the dashboard aggregates. Owners additionally see the
// recent audit feed.
func AdminStats(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	stats, err := services.NewStatsService(db).Dashboard()
	if err != nil {
		handleServiceError(c, err, "Stats", "Failed to load dashboard stats")
		return
	}

	recentActions := []models.AdminAction{}
	if admin.Role == models.RoleOwner {
		recentActions, err = services.NewAuditLogger(db).Recent(5)
		if err != nil {
			handleServiceError(c, err, "Stats", "Failed to load dashboard stats")
			return
		}
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{
		"counts":              stats.Counts,
		"genreBreakdown":      stats.GenreBreakdown,
		"recentRegistrations": stats.RecentRegistrations,
		"recentEvents":        stats.RecentEvents,
		"recentActions":       recentActions,
		"role":                admin.Role,
	})
}

type roleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// UpdateUserRole reassigns a user's role. Owner only.
func UpdateUserRole(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "User ID required")
		return
	}

	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Role is required")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	user, err := services.NewIdentityService(db).UpdateRole(userID, req.Role)
	if err != nil {
		handleServiceError(c, err, "User", "Failed to update role")
		return
	}

	services.NewAuditLogger(db).Log(owner.ID, "update_role", "user", userID.String(),
		gin.H{"role": req.Role}, c.ClientIP())

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"user": user})
}

// UploadImage accepts an event image and returns its stored reference.
func UploadImage(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Image file is required")
		return
	}

	path, err := helpers.UploadImage(c, fileHeader, "event_images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	db := middleware.GetDB(c)
	if db != nil {
		services.NewAuditLogger(db).Log(admin.ID, "upload_image", "image", path, nil, c.ClientIP())
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"url": path})
}
