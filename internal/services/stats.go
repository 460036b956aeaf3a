package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/models"
)

type DashboardCounts struct {
	Events        int64 `json:"events"`
	Users         int64 `json:"users"`
	Registrations int64 `json:"registrations"`
	Cancellations int64 `json:"cancellations"`
	Upcoming      int64 `json:"upcoming"`
	Capacity      int64 `json:"capacity"`
	Available     int64 `json:"available"`
}

type GenreBreakdown struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	EventCount int64  `json:"event_count"`
}

type RecentRegistration struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	EventName *string   `json:"event_name"`
	UserName  *string   `json:"user_name"`
}

type RecentEvent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Date      time.Time `json:"date"`
	OwnerName *string   `json:"owner_name"`
}

type DashboardStats struct {
	Counts              DashboardCounts      `json:"counts"`
	GenreBreakdown      []GenreBreakdown     `json:"genreBreakdown"`
	RecentRegistrations []RecentRegistration `json:"recentRegistrations"`
	RecentEvents        []RecentEvent        `json:"recentEvents"`
}

// StatsService runs the read-only dashboard aggregates. No locks needed.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Event{}).Count(&stats.Counts.Events).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Count(&stats.Counts.Users).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Registration{}).
		Where("status = ?", models.Registered).
		Count(&stats.Counts.Registrations).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Registration{}).
		Where("status = ?", models.Canceled).
		Count(&stats.Counts.Cancellations).Error; err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := s.db.Model(&models.Event{}).
		Where("status <> ? AND date >= ?", models.StatusArchived, today).
		Count(&stats.Counts.Upcoming).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Capacity  int64
		Available int64
	}
	if err := s.db.Model(&models.Event{}).
		Select("COALESCE(SUM(capacity), 0) AS capacity, COALESCE(SUM(available_spots), 0) AS available").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.Counts.Capacity = totals.Capacity
	stats.Counts.Available = totals.Available

	if err := s.db.Raw(`
		SELECT g.name, g.slug, COUNT(DISTINCT eg.event_id) AS event_count
		FROM genres g
		JOIN event_genres eg ON eg.genre_id = g.id
		GROUP BY g.id, g.name, g.slug
		ORDER BY event_count DESC, g.name ASC`).
		Scan(&stats.GenreBreakdown).Error; err != nil {
		return nil, err
	}

	if err := s.db.Raw(`
		SELECT r.id, r.status, r.created_at, e.name AS event_name, u.name AS user_name
		FROM registrations r
		LEFT JOIN events e ON e.id = r.event_id
		LEFT JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC
		LIMIT 8`).
		Scan(&stats.RecentRegistrations).Error; err != nil {
		return nil, err
	}

	if err := s.db.Raw(`
		SELECT e.id, e.name, e.status, e.date, u.name AS owner_name
		FROM events e
		LEFT JOIN users u ON u.id = e.owner_id
		ORDER BY e.created_at DESC
		LIMIT 5`).
		Scan(&stats.RecentEvents).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
