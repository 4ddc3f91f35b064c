// ABOUTME: Session controller holding the currently selected profile.
// ABOUTME: Gates record logging and history viewing on an active selection.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/harperreed/healthtrack/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrNoProfileSelected is returned by guarded operations in the Unselected state.
	ErrNoProfileSelected = errors.New("no profile selected")

	// ErrMissingRequiredField is returned when a required input is absent.
	ErrMissingRequiredField = errors.New("missing required field")
)

// Store is the subset of storage.Repository the controller delegates to.
type Store interface {
	CreateProfile(p *models.Profile) (int64, error)
	ListProfiles() ([]models.ProfileSummary, error)
	GetProfile(id int64) (*models.Profile, error)
	LastWeightFor(profileID int64) (*float64, error)
	AddRecord(r *models.Record) (int64, error)
	ListRecords(profileID int64) ([]*models.Record, error)
}

// Selection identifies the acting profile.
type Selection struct {
	ProfileID int64  `json:"profile_id"`
	Name      string `json:"name"`
}

// RecordInput is the data for one measurement. A nil Weight means the field
// was left empty; a nil Position means it was not given.
type RecordInput struct {
	Systolic   int
	Diastolic  int
	Pulse      int
	Weight     *float64
	MeasuredAt string
	Position   *string
}

// Controller owns the single selected-profile slot. It starts Unselected.
// All methods are safe for concurrent use; each holds the lock for its
// whole duration so the selection cannot change mid-operation.
type Controller struct {
	mu      sync.Mutex
	store   Store
	current *Selection
	log     *zap.Logger
}

// New creates an Unselected controller backed by store.
func New(store Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, log: logger.Named("session")}
}

// Current returns the selection and whether one exists.
func (c *Controller) Current() (Selection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Selection{}, false
	}
	return *c.current, true
}

// SelectProfile makes the given profile the acting one, replacing any prior selection.
func (c *Controller) SelectProfile(id int64, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectLocked(id, name)
}

// ClearSelection returns the controller to the Unselected state.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.log.Info("profile deselected", zap.Int64("profile_id", c.current.ProfileID))
	}
	c.current = nil
}

func (c *Controller) selectLocked(id int64, name string) {
	c.current = &Selection{ProfileID: id, Name: name}
	c.log.Info("profile selected", zap.Int64("profile_id", id), zap.String("name", name))
}

// CreateProfile stores a new profile and selects it. On failure the
// selection is left as it was.
func (c *Controller) CreateProfile(name string, age *int, gender *string) (*models.Profile, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingRequiredField)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := models.NewProfile(name)
	if age != nil {
		p.WithAge(*age)
	}
	if gender != nil {
		p.WithGender(*gender)
	}
	if _, err := c.store.CreateProfile(p); err != nil {
		return nil, err
	}
	c.selectLocked(p.ID, p.Name)
	return p, nil
}

// ListProfiles returns every profile in creation order. It needs no selection.
func (c *Controller) ListProfiles() ([]models.ProfileSummary, error) {
	return c.store.ListProfiles()
}

// SuggestedWeight returns the selected profile's most recent weight, or nil
// if it has no records yet. It is meant to prefill a form.
func (c *Controller) SuggestedWeight() (*float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, ErrNoProfileSelected
	}
	return c.store.LastWeightFor(c.current.ProfileID)
}

// LogRecord stores a measurement for the selected profile. Nothing is
// written unless a profile is selected and a weight is present.
func (c *Controller) LogRecord(in RecordInput) (*models.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, ErrNoProfileSelected
	}
	if in.Weight == nil {
		return nil, fmt.Errorf("%w: weight", ErrMissingRequiredField)
	}

	r := models.NewRecord(c.current.ProfileID, in.Systolic, in.Diastolic, in.Pulse, *in.Weight, in.MeasuredAt)
	if in.Position != nil {
		r.WithPosition(*in.Position)
	}
	if _, err := c.store.AddRecord(r); err != nil {
		return nil, err
	}

	c.log.Info("record logged",
		zap.Int64("profile_id", r.ProfileID),
		zap.Int64("record_id", r.ID),
		zap.String("measured_at", r.MeasuredAt))
	return r, nil
}

// CurrentProfile returns the full stored profile for the selection.
func (c *Controller) CurrentProfile() (*models.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, ErrNoProfileSelected
	}
	return c.store.GetProfile(c.current.ProfileID)
}

// ViewHistory returns the selected profile's records, newest first.
func (c *Controller) ViewHistory() ([]*models.Record, error) {
	_, records, err := c.History()
	return records, err
}

// History is ViewHistory plus the selection the records belong to, read
// under one lock so the two always agree.
func (c *Controller) History() (Selection, []*models.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Selection{}, nil, ErrNoProfileSelected
	}
	sel := *c.current
	records, err := c.store.ListRecords(sel.ProfileID)
	if err != nil {
		return Selection{}, nil, err
	}
	c.log.Debug("history loaded", zap.Int64("profile_id", sel.ProfileID), zap.Int("records", len(records)))
	return sel, records, nil
}
