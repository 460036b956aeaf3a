package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventfinder/eventfinder/config"
	"github.com/eventfinder/eventfinder/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection serializes writers the way row locks do on
	// Postgres, keeping in-memory SQLite usable for concurrency tests.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	name := fmt.Sprintf("user-%s", uuid.NewString()[:8])
	user := models.User{
		IdentityKey: "test:" + uuid.NewString(),
		Name:        &name,
		Email:       name + "@example.com",
		Role:        role,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func newTestEvent(t *testing.T, db *gorm.DB, capacity int) *models.Event {
	t.Helper()

	owner := newTestUser(t, db, models.RoleAdmin)
	event := models.Event{
		Name:           fmt.Sprintf("event-%s", uuid.NewString()[:8]),
		Description:    "a test event",
		Location:       "Toronto, CA",
		Date:           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Time:           "19:00",
		Status:         models.StatusPublished,
		Capacity:       capacity,
		AvailableSpots: capacity,
		OwnerID:        owner.ID,
	}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func registeredCount(t *testing.T, db *gorm.DB, eventID uuid.UUID) int {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, models.Registered).
		Count(&count).Error)
	return int(count)
}

func reloadEvent(t *testing.T, db *gorm.DB, eventID uuid.UUID) *models.Event {
	t.Helper()

	var event models.Event
	require.NoError(t, db.Where("id = ?", eventID).First(&event).Error)
	return &event
}
