package services

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/models"
)

// AuditLogger appends admin actions. Logging failures are reported to the
// server log and swallowed so they never fail the mutation they describe.
type AuditLogger struct {
	db *gorm.DB
}

func NewAuditLogger(db *gorm.DB) *AuditLogger {
	return &AuditLogger{db: db}
}

func (l *AuditLogger) Log(adminID uuid.UUID, action, targetType, targetID string, details interface{}, ip string) {
	payload, err := json.Marshal(details)
	if err != nil {
		log.Printf("audit: failed to serialize details for %s: %v", action, err)
		payload = []byte("{}")
	}

	record := models.AdminAction{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    string(payload),
		IPAddress:  ip,
	}

	if err := l.db.Create(&record).Error; err != nil {
		log.Printf("audit: failed to record %s on %s/%s: %v", action, targetType, targetID, err)
	}
}

// Recent returns the latest audit records with admin names, newest first.
func (l *AuditLogger) Recent(limit int) ([]models.AdminAction, error) {
	var actions []models.AdminAction
	err := l.db.Preload("Admin").
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error
	return actions, err
}
