package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/models"
	"github.com/eventfinder/eventfinder/internal/services"
)

type registerRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
}

// ListRegistrations returns the caller's registrations, or the status and
// live capacity for a single event when event_id is given.
func ListRegistrations(c *gin.Context) {
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
	ledger := services.NewRegistrationService(db)

	if raw := c.Query("event_id"); raw != "" {
		eventID, err := uuid.Parse(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event_id")
			return
		}

		registration, err := ledger.Status(user.ID, eventID)
		if err != nil {
			handleServiceError(c, err, "Event", "Error retrieving registration")
			return
		}

		capacity, err := ledger.Capacity(eventID)
		if err != nil {
			handleServiceError(c, err, "Event", "Error retrieving registration")
			return
		}

		status := "not_registered"
		if registration != nil {
			status = string(registration.Status)
		}

		helpers.RespondWithSuccess(c, http.StatusOK, gin.H{
			"status":       status,
			"registration": registration,
			"capacity":     capacity,
		})
		return
	}

	registrations, err := ledger.ListForUser(user.ID)
	if err != nil {
		handleServiceError(c, err, "Registration", "Error retrieving registrations")
		return
	}

	items := make([]gin.H, 0, len(registrations))
	for _, registration := range registrations {
		item := gin.H{
			"event_id":   registration.EventID,
			"status":     registration.Status,
			"created_at": registration.CreatedAt,
		}
		if registration.Event != nil {
			item["name"] = registration.Event.Name
			item["location"] = registration.Event.Location
			item["date"] = registration.Event.Date.Format(dateLayout)
			item["time"] = registration.Event.Time
			item["image_url"] = registration.Event.ImageURL
		}
		items = append(items, item)
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"registrations": items})
}

// CreateRegistration registers the caller for an event, enforcing capacity.
func CreateRegistration(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "event_id is required")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	if err := services.NewRegistrationService(db).Register(user.ID, req.EventID); err != nil {
		handleServiceError(c, err, "Event", "Server error while processing registration")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"status": models.Registered})
}

// CancelRegistration releases the caller's spot for an event.
func CancelRegistration(c *gin.Context) {
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

	if err := services.NewRegistrationService(db).Cancel(user.ID, eventID); err != nil {
		handleServiceError(c, err, "Registration", "Server error while processing registration")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"status": models.Canceled})
}
