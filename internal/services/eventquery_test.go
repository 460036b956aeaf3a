package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/models"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func floatPtr(v float64) *float64 { return &v }

func seedCatalog(t *testing.T, db *gorm.DB) (a, b *models.Event) {
	t.Helper()

	a = newTestEvent(t, db, 0)
	require.NoError(t, db.Model(a).Updates(map[string]interface{}{
		"name":  "Jazz Night",
		"price": 10.0,
		"date":  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	b = newTestEvent(t, db, 0)
	require.NoError(t, db.Model(b).Updates(map[string]interface{}{
		"name":  "Rock Festival",
		"price": 50.0,
		"date":  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	return a, b
}

func TestFilterByPriceAndDate(t *testing.T) {
	db := newTestDB(t)
	query := NewEventQuery(db)
	a, b := seedCatalog(t, db)

	events, _, err := query.List(EventFilter{PriceMax: floatPtr(20)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, a.ID, events[0].ID)

	events, _, err = query.List(EventFilter{DateFrom: datePtr(2024, 2, 1)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, b.ID, events[0].ID)

	// Filters AND together, so the combination matches nothing.
	events, page, err := query.List(EventFilter{
		PriceMax: floatPtr(20),
		DateFrom: datePtr(2024, 2, 1),
	})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.EqualValues(t, 0, page.Total)
}

func TestFilterBySearchAndLocation(t *testing.T) {
	db := newTestDB(t)
	query := NewEventQuery(db)
	a, _ := seedCatalog(t, db)

	events, _, err := query.List(EventFilter{Search: "Jazz"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, a.ID, events[0].ID)

	events, _, err = query.List(EventFilter{Location: "Toronto"})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestFilterByGenreSlugAggregatesAllGenres(t *testing.T) {
	db := newTestDB(t)
	query := NewEventQuery(db)
	a, _ := seedCatalog(t, db)

	music := models.Genre{Name: "Music", Slug: "music"}
	comedy := models.Genre{Name: "Comedy", Slug: "comedy"}
	require.NoError(t, db.Create(&music).Error)
	require.NoError(t, db.Create(&comedy).Error)
	require.NoError(t, db.Model(a).Association("Genres").Replace([]models.Genre{music, comedy}))

	events, _, err := query.List(EventFilter{Genre: "music"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, a.ID, events[0].ID)
	// The full genre list comes back regardless of which genre filtered.
	assert.ElementsMatch(t, []string{"Music", "Comedy"}, events[0].Genres)
	assert.ElementsMatch(t, []string{"music", "comedy"}, events[0].GenreSlugs)

	events, _, err = query.List(EventFilter{Genre: music.ID.String()})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, _, err = query.List(EventFilter{Genre: "no-such-slug"})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDraftsAndArchivedHiddenFromPublicList(t *testing.T) {
	db := newTestDB(t)
	query := NewEventQuery(db)
	a, b := seedCatalog(t, db)

	require.NoError(t, db.Model(a).Update("status", models.StatusDraft).Error)
	require.NoError(t, db.Model(b).Update("status", models.StatusArchived).Error)

	events, page, err := query.List(EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.EqualValues(t, 0, page.Total)
}

func TestPagination(t *testing.T) {
	db := newTestDB(t)
	query := NewEventQuery(db)

	dates := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	}
	ids := make([]interface{}, len(dates))
	for i, d := range dates {
		event := newTestEvent(t, db, 0)
		require.NoError(t, db.Model(event).Update("date", d).Error)
		ids[i] = event.ID
	}

	events, page, err := query.List(EventFilter{Limit: 1, Page: 2, Sort: "date", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ids[1], events[0].ID, "page 2 of limit 1 is the second event in sort order")
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 1, page.Limit)
}

func TestFilterNormalizeClampsAndAllowlists(t *testing.T) {
	f := EventFilter{Limit: 1000, Page: -3, Sort: "owner_id; DROP TABLE events", Order: "desc"}
	f.Normalize()

	assert.Equal(t, 100, f.Limit)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, "date", f.Sort, "sort falls back to the allow-list default")
	assert.Equal(t, "DESC", f.Order)
	assert.Equal(t, float64(defaultRadiusKm), f.RadiusKm)

	f = EventFilter{}
	f.Normalize()
	assert.Equal(t, defaultLimit, f.Limit)
	assert.Equal(t, "ASC", f.Order)
}

func TestGeoFilterKeepsUngeolocatedEvents(t *testing.T) {
	db := newTestDB(t)
	query := NewEventQuery(db)

	near := newTestEvent(t, db, 0)
	require.NoError(t, db.Model(near).Updates(map[string]interface{}{
		"lat": 43.65, "lng": -79.38, // Toronto
	}).Error)

	far := newTestEvent(t, db, 0)
	require.NoError(t, db.Model(far).Updates(map[string]interface{}{
		"lat": 48.85, "lng": 2.35, // Paris
	}).Error)

	nowhere := newTestEvent(t, db, 0) // no coordinates

	events, page, err := query.List(EventFilter{
		Lat: floatPtr(43.70), Lng: floatPtr(-79.42), RadiusKm: 50,
	})
	require.NoError(t, err)

	got := make(map[string]bool, len(events))
	for _, event := range events {
		got[event.ID.String()] = true
	}
	assert.True(t, got[near.ID.String()])
	assert.False(t, got[far.ID.String()], "events outside the radius drop out")
	assert.True(t, got[nowhere.ID.String()], "events without coordinates are retained")
	assert.EqualValues(t, 2, page.Total)

	for _, event := range events {
		if event.ID == near.ID {
			require.NotNil(t, event.DistanceKm)
			assert.Less(t, *event.DistanceKm, 50.0)
		}
		if event.ID == nowhere.ID {
			assert.Nil(t, event.DistanceKm)
		}
	}
}

func TestFindByIDIncludesArchived(t *testing.T) {
	db := newTestDB(t)
	query := NewEventQuery(db)
	a, _ := seedCatalog(t, db)

	require.NoError(t, db.Model(a).Update("status", models.StatusArchived).Error)

	event, err := query.FindByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, event.Status)

	require.NoError(t, db.Delete(&models.Event{}, "id = ?", a.ID).Error)
	_, err = query.FindByID(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
