package database

import (
	"strings"
	"time"

	"github.com/Anoromi/whatawhat-lib/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for activity events
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new activity event into the database
func (r *Repository) Create(event *models.ActivityEvent) error {
	event.ResourceName = strings.ToLower(event.ResourceName)
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert activity event")
	}
	return nil
}

// GetEventsSince retrieves all activity events since a given time
// Simple query that returns raw events - callers do the processing
func (r *Repository) GetEventsSince(since time.Time) ([]*models.ActivityEvent, error) {
	var events []*models.ActivityEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query activity events")
	}

	return events, nil
}

// GetAppSummarySince returns aggregated notification counts since a given time
func (r *Repository) GetAppSummarySince(since time.Time) ([]models.AppSummary, error) {
	var summaries []models.AppSummary

	result := r.db.Model(&models.ActivityEvent{}).
		Select("resource_name, MAX(app_name) as app_name, COUNT(*) as event_count").
		Where("timestamp >= ?", since).
		Group("resource_name").
		Order("event_count DESC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query app summary")
	}

	return summaries, nil
}

// DeleteOldEvents deletes events older than a specified date (soft delete)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.ActivityEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// GetLatest retrieves the most recent activity event
func (r *Repository) GetLatest() (*models.ActivityEvent, error) {
	var event models.ActivityEvent
	result := r.db.Order("timestamp DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
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

// Clear removes all activity events from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM activity_events")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear activity events")
	}
	return nil
}
