package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventfinder/eventfinder/internal/models"
)

func TestCreateDefaultsStatusAndSpots(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	owner := newTestUser(t, db, models.RoleAdmin)

	event := models.Event{
		Name:        "Launch Party",
		Description: "doors at eight",
		Location:    "Berlin, DE",
		Date:        time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		Time:        "20:00",
		Capacity:    40,
		OwnerID:     owner.ID,
	}
	require.NoError(t, catalog.Create(&event, nil))

	reloaded := reloadEvent(t, db, event.ID)
	assert.Equal(t, models.StatusPublished, reloaded.Status)
	assert.Equal(t, 40, reloaded.AvailableSpots)
}

func TestCreateLinksGenresAndPrimaryGenre(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	owner := newTestUser(t, db, models.RoleAdmin)

	music := models.Genre{Name: "Music", Slug: "music"}
	film := models.Genre{Name: "Film", Slug: "film"}
	require.NoError(t, db.Create(&music).Error)
	require.NoError(t, db.Create(&film).Error)

	event := models.Event{
		Name:        "Open Air",
		Description: "movies with live score",
		Location:    "Lisbon, PT",
		Date:        time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Time:        "21:30",
		OwnerID:     owner.ID,
	}
	require.NoError(t, catalog.Create(&event, []uuid.UUID{film.ID, music.ID}))

	var linked models.Event
	require.NoError(t, db.Preload("Genres").Where("id = ?", event.ID).First(&linked).Error)
	assert.Len(t, linked.Genres, 2)
	require.NotNil(t, linked.PrimaryGenreID)
	assert.Equal(t, film.ID, *linked.PrimaryGenreID, "first listed genre becomes primary")
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	event := newTestEvent(t, db, 10)

	event.Status = "cancelled"
	err := catalog.Update(event, nil, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRecomputesAvailableFromLedger(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	ledger := NewRegistrationService(db)
	event := newTestEvent(t, db, 10)

	for i := 0; i < 3; i++ {
		user := newTestUser(t, db, models.RoleUser)
		require.NoError(t, ledger.Register(user.ID, event.ID))
	}

	// Shrink capacity below the stale counter; the update derives the new
	// available count from live registrations.
	fresh := reloadEvent(t, db, event.ID)
	fresh.Capacity = 5
	require.NoError(t, catalog.Update(fresh, nil, false))
	assert.Equal(t, 2, reloadEvent(t, db, event.ID).AvailableSpots)

	// Shrinking under the registered count floors at zero.
	fresh = reloadEvent(t, db, event.ID)
	fresh.Capacity = 2
	require.NoError(t, catalog.Update(fresh, nil, false))
	assert.Equal(t, 0, reloadEvent(t, db, event.ID).AvailableSpots)
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	ledger := NewRegistrationService(db)
	event := newTestEvent(t, db, 5)
	user := newTestUser(t, db, models.RoleUser)

	genre := models.Genre{Name: "Outdoor", Slug: "outdoor"}
	require.NoError(t, db.Create(&genre).Error)
	require.NoError(t, db.Model(event).Association("Genres").Append(&genre))

	require.NoError(t, ledger.Register(user.ID, event.ID))
	require.NoError(t, db.Create(&models.Favorite{UserID: user.ID, EventID: event.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{EventID: event.ID, UserID: user.ID, Body: "see you there"}).Error)

	require.NoError(t, catalog.Delete(event.ID))

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Favorite{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Comment{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Table("event_genres").Where("event_id = ?", event.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	err := catalog.Delete(event.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
