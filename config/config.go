package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	SeedGenres(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Event{},
		&models.Registration{},
		&models.Favorite{},
		&models.Comment{},
		&models.AdminAction{},
	)
}

// SeedGenres inserts the default genre list when the table is empty.
func SeedGenres(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Genre{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	genres := []models.Genre{
		{Name: "Music", Slug: "music", Description: "Concerts, festivals, and live performances", Icon: "🎵"},
		{Name: "Sports", Slug: "sports", Description: "Sporting events and competitions", Icon: "⚽"},
		{Name: "Food & Drink", Slug: "food-drink", Description: "Food festivals, tastings, and culinary events", Icon: "🍔"},
		{Name: "Arts & Culture", Slug: "arts-culture", Description: "Art exhibitions, theater, and cultural events", Icon: "🎨"},
		{Name: "Business", Slug: "business", Description: "Conferences, networking, and professional events", Icon: "💼"},
		{Name: "Technology", Slug: "technology", Description: "Tech meetups, hackathons, and workshops", Icon: "💻"},
		{Name: "Family", Slug: "family", Description: "Family-friendly activities and events", Icon: "👨‍👩‍👧‍👦"},
		{Name: "Nightlife", Slug: "nightlife", Description: "Clubs, bars, and evening entertainment", Icon: "🌙"},
		{Name: "Education", Slug: "education", Description: "Workshops, classes, and learning opportunities", Icon: "📚"},
		{Name: "Outdoor", Slug: "outdoor", Description: "Outdoor activities and adventures", Icon: "🏕️"},
		{Name: "Comedy", Slug: "comedy", Description: "Stand-up comedy and humor shows", Icon: "😂"},
		{Name: "Film", Slug: "film", Description: "Movie screenings and film festivals", Icon: "🎬"},
	}

	for _, genre := range genres {
		var existing models.Genre
		result := db.Where("slug = ?", genre.Slug).First(&existing)
		if result.Error != nil {
			db.Create(&genre)
		}
	}
}
