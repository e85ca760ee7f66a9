package database

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"seltext/internal/models"
)

// Repository handles all database operations for the extraction journal
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new extraction event into the database
func (r *Repository) Create(event *models.ExtractionEvent) error {
	event.AppName = strings.ToLower(event.AppName)
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert extraction event")
	}
	return nil
}

// GetEventsSince retrieves all extraction events since a given time, oldest
// first
func (r *Repository) GetEventsSince(since time.Time) ([]*models.ExtractionEvent, error) {
	var events []*models.ExtractionEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query extraction events")
	}

	return events, nil
}

// GetMechanismSummarySince aggregates attempts per app and mechanism since a
// given time. Rates are left to the reporter.
func (r *Repository) GetMechanismSummarySince(since time.Time) ([]models.MechanismSummary, error) {
	var summaries []models.MechanismSummary

	result := r.db.Model(&models.ExtractionEvent{}).
		Select(`app_name, mechanism,
			COUNT(*) as attempts,
			SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END) as successes,
			SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END) as empties,
			SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END) as failures,
			SUM(CASE WHEN pinned THEN 1 ELSE 0 END) as pinned,
			AVG(latency_ms) as avg_latency_ms`,
			models.OutcomeText, models.OutcomeEmpty, models.OutcomeError).
		Where("timestamp >= ?", since).
		Group("app_name, mechanism").
		Order("attempts DESC, app_name ASC, mechanism ASC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query mechanism summary")
	}

	return summaries, nil
}

// CountErrorsSince counts error logs since a given time
func (r *Repository) CountErrorsSince(since time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.ErrorLog{}).Where("timestamp >= ?", since).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to count error logs")
	}
	return count, nil
}

// DeleteOldEvents deletes events older than a specified date (soft delete)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.ExtractionEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// GetLatest retrieves the most recent extraction event, or nil when the
// journal is empty
func (r *Repository) GetLatest() (*models.ExtractionEvent, error) {
	var event models.ExtractionEvent
	result := r.db.Order("timestamp DESC").First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest event")
	}
	return &event, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// Clear removes all extraction events and error logs from the database
func (r *Repository) Clear() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM extraction_events").Error; err != nil {
			return errors.Wrap(err, "failed to clear extraction events")
		}
		if err := tx.Exec("DELETE FROM error_logs").Error; err != nil {
			return errors.Wrap(err, "failed to clear error logs")
		}
		return nil
	})
}
