package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/services"
)

// GetProfile returns the caller's own record.
func GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"user": user})
}

// UpdateProfile applies a partial profile update; absent fields keep their
// stored values.
func UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	updated, err := services.NewIdentityService(db).UpdateProfile(user.ID, input)
	if err != nil {
		handleServiceError(c, err, "User", "Server error while updating profile")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{
		"user":    updated,
		"message": "Profile updated successfully",
	})
}

// DeleteAccount removes the caller's account and everything owned by it.
func DeleteAccount(c *gin.Context) {
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

	if err := services.NewIdentityService(db).DeleteAccount(user.ID); err != nil {
		handleServiceError(c, err, "User", "Server error while deleting account")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
