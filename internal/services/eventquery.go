package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/models"
)

const (
	defaultLimit    = 50
	maxLimit        = 100
	defaultRadiusKm = 50
)

var allowedSorts = map[string]string{
	"date":       "date",
	"price":      "price",
	"name":       "name",
	"created_at": "created_at",
}

// EventFilter is the full set of optional search predicates. All active
// filters combine with AND.
type EventFilter struct {
	Search   string
	Genre    string // genre id or slug
	Location string
	DateFrom *time.Time
	DateTo   *time.Time
	PriceMin *float64
	PriceMax *float64
	Lat      *float64
	Lng      *float64
	RadiusKm float64
	Sort     string
	Order    string
	Page     int
	Limit    int
}

// Normalize clamps pagination, restricts the sort field to the allow-list
// and defaults the geo radius.
func (f *EventFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if _, ok := allowedSorts[f.Sort]; !ok {
		f.Sort = "date"
	}
	if strings.EqualFold(f.Order, "desc") {
		f.Order = "DESC"
	} else {
		f.Order = "ASC"
	}

	if f.RadiusKm <= 0 {
		f.RadiusKm = defaultRadiusKm
	}
}

func (f *EventFilter) geoActive() bool {
	return f.Lat != nil && f.Lng != nil
}

// EventSummary is the API shape of an event row with its aggregated
// genre list and derived fields.
type EventSummary struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Location       string             `json:"location"`
	Lat            *float64           `json:"lat"`
	Lng            *float64           `json:"lng"`
	Date           string             `json:"date"`
	Time           string             `json:"time"`
	AgeRestriction *int               `json:"age_restriction"`
	Price          float64            `json:"price"`
	ImageURL       *string            `json:"image_url"`
	Status         models.EventStatus `json:"status"`
	Capacity       int                `json:"capacity"`
	AvailableSpots int                `json:"available_spots"`
	OwnerID        uuid.UUID          `json:"owner_id"`
	OwnerName      *string            `json:"owner_name"`
	GenreID        *uuid.UUID         `json:"genre_id"`
	Genres         []string           `json:"genres"`
	GenreSlugs     []string           `json:"genre_slugs"`
	DistanceKm     *float64           `json:"distance_km,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// Pagination describes the page of a filtered result set.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// EventQuery assembles the dynamic search query. The same predicate set
// backs both the count and the page fetch so they can never disagree.
type EventQuery struct {
	db *gorm.DB
}

func NewEventQuery(db *gorm.DB) *EventQuery {
	return &EventQuery{db: db}
}

func (q *EventQuery) base(f *EventFilter, publishedOnly bool) *gorm.DB {
	query := q.db.Model(&models.Event{})

	if publishedOnly {
		query = query.Where("events.status = ?", models.StatusPublished)
	}

	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where(
			"(events.name LIKE ? OR events.location LIKE ? OR events.description LIKE ?)",
			like, like, like,
		)
	}

	if f.Genre != "" {
		query = query.
			Joins("JOIN event_genres filter_eg ON filter_eg.event_id = events.id").
			Joins("JOIN genres filter_g ON filter_g.id = filter_eg.genre_id")
		if genreID, err := uuid.Parse(f.Genre); err == nil {
			query = query.Where("filter_g.id = ?", genreID)
		} else {
			query = query.Where("filter_g.slug = ?", f.Genre)
		}
	}

	if f.DateFrom != nil {
		query = query.Where("events.date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("events.date <= ?", *f.DateTo)
	}

	if f.Location != "" {
		query = query.Where("events.location LIKE ?", "%"+f.Location+"%")
	}

	if f.PriceMin != nil {
		query = query.Where("events.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		query = query.Where("events.price <= ?", *f.PriceMax)
	}

	return query
}

// List runs the filtered, paginated public search.
func (q *EventQuery) List(f EventFilter) ([]EventSummary, Pagination, error) {
	f.Normalize()

	var total int64
	if err := q.base(&f, true).Distinct("events.id").Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var events []models.Event
	err := q.base(&f, true).
		Preload("Genres").
		Preload("Owner").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Order(fmt.Sprintf("events.%s %s", allowedSorts[f.Sort], f.Order)).
		Find(&events).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	summaries := make([]EventSummary, 0, len(events))
	for _, event := range events {
		summary := newEventSummary(&event)

		if f.geoActive() {
			if event.Lat != nil && event.Lng != nil {
				d := helpers.DistanceKm(*f.Lat, *f.Lng, *event.Lat, *event.Lng)
				if d > f.RadiusKm {
					continue
				}
				rounded := math.Round(d*100) / 100
				summary.DistanceKm = &rounded
			}
			// Events without coordinates stay in so geolocation never
			// hides everything un-geocoded.
		}

		summaries = append(summaries, summary)
	}

	if f.geoActive() {
		total = int64(len(summaries))
	}

	page := Pagination{
		Page:  f.Page,
		Limit: f.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}

	return summaries, page, nil
}

// FindByID fetches one event with genres and owner, regardless of status.
func (q *EventQuery) FindByID(id uuid.UUID) (*EventSummary, error) {
	var event models.Event
	err := q.db.Preload("Genres").Preload("Owner").Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event: %w", ErrNotFound)
		}
		return nil, err
	}

	summary := newEventSummary(&event)
	return &summary, nil
}

// ListAll returns every event including drafts, newest first. Admin only.
func (q *EventQuery) ListAll() ([]EventSummary, error) {
	var events []models.Event
	err := q.db.Preload("Genres").Preload("Owner").
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]EventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, newEventSummary(&event))
	}
	return summaries, nil
}

func newEventSummary(event *models.Event) EventSummary {
	summary := EventSummary{
		ID:             event.ID,
		Name:           event.Name,
		Description:    event.Description,
		Location:       event.Location,
		Lat:            event.Lat,
		Lng:            event.Lng,
		Date:           event.Date.Format("2006-01-02"),
		Time:           event.Time,
		AgeRestriction: event.AgeRestriction,
		Price:          event.Price,
		ImageURL:       event.ImageURL,
		Status:         event.Status,
		Capacity:       event.Capacity,
		AvailableSpots: event.AvailableSpots,
		OwnerID:        event.OwnerID,
		GenreID:        event.PrimaryGenreID,
		Genres:         make([]string, 0, len(event.Genres)),
		GenreSlugs:     make([]string, 0, len(event.Genres)),
		CreatedAt:      event.CreatedAt,
	}

	if event.Owner != nil {
		summary.OwnerName = event.Owner.Name
	}

	for _, genre := range event.Genres {
		summary.Genres = append(summary.Genres, genre.Name)
		summary.GenreSlugs = append(summary.GenreSlugs, genre.Slug)
	}

	return summary
}
