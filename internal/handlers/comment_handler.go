package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/models"
)

const maxCommentLength = 1000

type commentRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
	Comment string    `json:"comment"`
}

func commentPayload(comment *models.Comment) gin.H {
	item := gin.H{
		"id":         comment.ID,
		"event_id":   comment.EventID,
		"user_id":    comment.UserID,
		"comment":    comment.Body,
		"created_at": comment.CreatedAt,
	}
	if comment.User != nil {
		item["user_name"] = comment.User.Name
	}
	return item
}

// ListComments is public: comments for an event, newest first.
func ListComments(c *gin.Context) {
	eventID, err := uuid.Parse(c.Query("event_id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event ID required")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var comments []models.Comment
	if err := db.Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving comments")
		return
	}

	items := make([]gin.H, 0, len(comments))
	for i := range comments {
		items = append(items, commentPayload(&comments[i]))
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"comments": items})
}

func CreateComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event ID required")
		return
	}

	body := strings.TrimSpace(req.Comment)
	if body == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Comment cannot be empty")
		return
	}
	if len(body) > maxCommentLength {
		helpers.RespondWithError(c, http.StatusBadRequest, "Comment too long (max 1000 characters)")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var event models.Event
	if err := db.Where("id = ?", req.EventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error adding comment")
		return
	}

	comment := models.Comment{
		EventID: req.EventID,
		UserID:  user.ID,
		Body:    body,
	}
	if err := db.Create(&comment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error adding comment")
		return
	}
	comment.User = user

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"comment": commentPayload(&comment)})
}

// DeleteComment allows the author or an admin to remove a comment.
func DeleteComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Comment ID required")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var comment models.Comment
	if err := db.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Comment not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error deleting comment")
		return
	}

	isAuthor := comment.UserID == user.ID
	if !isAuthor && user.Role.Level() < models.RoleAdmin.Level() {
		helpers.RespondWithError(c, http.StatusForbidden, "Not authorized to delete this comment")
		return
	}

	if err := db.Delete(&comment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error deleting comment")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{})
}
