package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/services"
)

const dateLayout = "2006-01-02"

// ListEvents is the public filtered, paginated search.
func ListEvents(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	filter := services.EventFilter{
		Search:   c.Query("search"),
		Genre:    c.Query("genre"),
		Location: c.Query("location"),
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
	}

	if from := c.Query("date_from"); from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid date_from, expected YYYY-MM-DD")
			return
		}
		filter.DateFrom = &parsed
	}
	if to := c.Query("date_to"); to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid date_to, expected YYYY-MM-DD")
			return
		}
		filter.DateTo = &parsed
	}

	var err error
	if filter.PriceMin, err = helpers.ParseFloatPtr(c.Query("price_min")); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid price_min")
		return
	}
	if filter.PriceMax, err = helpers.ParseFloatPtr(c.Query("price_max")); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid price_max")
		return
	}
	if filter.Lat, err = helpers.ParseFloatPtr(c.Query("lat")); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid lat")
		return
	}
	if filter.Lng, err = helpers.ParseFloatPtr(c.Query("lng")); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid lng")
		return
	}
	if radius, err := helpers.ParseFloatPtr(c.Query("radius")); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid radius")
		return
	} else if radius != nil {
		filter.RadiusKm = *radius
	}

	if page := c.Query("page"); page != "" {
		if filter.Page, err = helpers.StringToInt(page); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number")
			return
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if filter.Limit, err = helpers.StringToInt(limit); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	events, pagination, err := services.NewEventQuery(db).List(filter)
	if err != nil {
		handleServiceError(c, err, "Event", "Error retrieving events")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{
		"events":     events,
		"pagination": pagination,
	})
}

func GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event id")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	event, err := services.NewEventQuery(db).FindByID(eventID)
	if err != nil {
		handleServiceError(c, err, "Event", "Error retrieving event")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"event": event})
}
