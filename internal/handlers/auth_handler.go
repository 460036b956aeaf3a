package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/models"
	"github.com/eventfinder/eventfinder/internal/services"
)

type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a local account for the built-in identity provider and
// issues a token for it.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var existingUser models.User
	if result := db.Where("email = ?", req.Email).First(&existingUser); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "User already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password")
		return
	}

	user := models.User{
		IdentityKey:  "local:" + uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		IsActive:     true,
		Name:         req.Name,
		Phone:        req.Phone,
		Location:     req.Location,
	}

	if err := db.Create(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := helpers.IssueToken(user.IdentityKey, user.Email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := helpers.IssueToken(user.IdentityKey, user.Email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// SyncUser resolves the verified external identity into a local user row,
// creating it on first sight.
func SyncUser(c *gin.Context) {
	token, ok := helpers.BearerToken(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "No token provided")
		return
	}

	identity, err := helpers.VerifyToken(token)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var input services.SyncInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}

	user, err := services.NewIdentityService(db).Sync(services.Identity{
		Key:   identity.Key,
		Email: identity.Email,
		Name:  identity.Name,
	}, input)
	if err != nil {
		handleServiceError(c, err, "User", "Server error while syncing user")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, gin.H{"user_id": user.ID})
}
