// ABOUTME: Repository interface for health data storage.
// ABOUTME: Defines the contract for profile and record operations.
package storage

import "github.com/harperreed/healthtrack/internal/models"

// Repository defines the storage interface for profiles and records.
// It is a superset of session.Store, adding the lifecycle the CLI owns.
type Repository interface {
	// Profile operations
	CreateProfile(p *models.Profile) (int64, error)
	ListProfiles() ([]models.ProfileSummary, error)
	GetProfile(id int64) (*models.Profile, error)

	// Record operations
	AddRecord(r *models.Record) (int64, error)
	ListRecords(profileID int64) ([]*models.Record, error)
	LastWeightFor(profileID int64) (*float64, error)

	// Lifecycle
	Initialize() error
	Path() string
	Close() error
}

var _ Repository = (*DB)(nil)
