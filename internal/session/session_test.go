// ABOUTME: Tests for the session controller state machine and guarded operations.
// ABOUTME: Uses a recording fake store plus end-to-end scenarios against SQLite.
package session

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/harperreed/healthtrack/internal/models"
	"github.com/harperreed/healthtrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type fakeStore struct {
	createFn     func(p *models.Profile) (int64, error)
	listFn       func() ([]models.ProfileSummary, error)
	getFn        func(id int64) (*models.Profile, error)
	lastWeightFn func(profileID int64) (*float64, error)
	addFn        func(r *models.Record) (int64, error)
	recordsFn    func(profileID int64) ([]*models.Record, error)

	adds int
}

func (f *fakeStore) CreateProfile(p *models.Profile) (int64, error) {
	if f.createFn != nil {
		return f.createFn(p)
	}
	p.ID = 1
	return 1, nil
}

func (f *fakeStore) ListProfiles() ([]models.ProfileSummary, error) {
	if f.listFn != nil {
		return f.listFn()
	}
	return []models.ProfileSummary{}, nil
}

func (f *fakeStore) GetProfile(id int64) (*models.Profile, error) {
	if f.getFn != nil {
		return f.getFn(id)
	}
	return &models.Profile{ID: id, Name: "Alice"}, nil
}

func (f *fakeStore) LastWeightFor(profileID int64) (*float64, error) {
	if f.lastWeightFn != nil {
		return f.lastWeightFn(profileID)
	}
	return nil, nil
}

func (f *fakeStore) AddRecord(r *models.Record) (int64, error) {
	f.adds++
	if f.addFn != nil {
		return f.addFn(r)
	}
	r.ID = int64(f.adds)
	return r.ID, nil
}

func (f *fakeStore) ListRecords(profileID int64) ([]*models.Record, error) {
	if f.recordsFn != nil {
		return f.recordsFn(profileID)
	}
	return []*models.Record{}, nil
}

func ptr[T any](v T) *T { return &v }

func sampleInput() RecordInput {
	return RecordInput{
		Systolic:   120,
		Diastolic:  80,
		Pulse:      70,
		Weight:     ptr(65.5),
		MeasuredAt: "2024-01-01 08:00:00",
		Position:   ptr("sitting"),
	}
}

func TestInitialStateUnselected(t *testing.T) {
	c := New(&fakeStore{}, nil)

	_, ok := c.Current()
	assert.False(t, ok)
}

func TestSelectAndReselect(t *testing.T) {
	c := New(&fakeStore{}, zaptest.NewLogger(t))

	c.SelectProfile(1, "Alice")
	sel, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, Selection{ProfileID: 1, Name: "Alice"}, sel)

	c.SelectProfile(2, "Bob")
	sel, ok = c.Current()
	require.True(t, ok)
	assert.Equal(t, Selection{ProfileID: 2, Name: "Bob"}, sel)
}

func TestClearSelection(t *testing.T) {
	store := &fakeStore{}
	c := New(store, nil)
	c.SelectProfile(1, "Alice")

	c.ClearSelection()
	_, ok := c.Current()
	assert.False(t, ok)

	_, err := c.LogRecord(sampleInput())
	assert.ErrorIs(t, err, ErrNoProfileSelected)
	_, err = c.ViewHistory()
	assert.ErrorIs(t, err, ErrNoProfileSelected)
	assert.Zero(t, store.adds)

	// Clearing twice is harmless.
	c.ClearSelection()
}

func TestLogRecordUnselected(t *testing.T) {
	store := &fakeStore{}
	c := New(store, nil)

	_, err := c.LogRecord(sampleInput())
	assert.ErrorIs(t, err, ErrNoProfileSelected)
	assert.Zero(t, store.adds, "no store write expected")
}

func TestLogRecordMissingWeight(t *testing.T) {
	store := &fakeStore{}
	c := New(store, nil)
	c.SelectProfile(1, "Alice")

	in := sampleInput()
	in.Weight = nil
	_, err := c.LogRecord(in)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Zero(t, store.adds, "no store write expected")
}

func TestLogRecordSelectionCheckedBeforeWeight(t *testing.T) {
	c := New(&fakeStore{}, nil)

	in := sampleInput()
	in.Weight = nil
	_, err := c.LogRecord(in)
	assert.ErrorIs(t, err, ErrNoProfileSelected)
}

func TestLogRecordDelegatesWithSelectedProfile(t *testing.T) {
	var got *models.Record
	store := &fakeStore{addFn: func(r *models.Record) (int64, error) {
		got = r
		r.ID = 9
		return 9, nil
	}}
	c := New(store, nil)
	c.SelectProfile(3, "Carol")

	r, err := c.LogRecord(sampleInput())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Same(t, got, r)
	assert.Equal(t, int64(3), got.ProfileID)
	assert.Equal(t, int64(9), r.ID)
	assert.Equal(t, 65.5, got.Weight)
	require.NotNil(t, got.Position)
	assert.Equal(t, "sitting", *got.Position)
}

func TestLogRecordPropagatesStoreError(t *testing.T) {
	store := &fakeStore{addFn: func(r *models.Record) (int64, error) {
		return 0, storage.ErrForeignKeyViolation
	}}
	c := New(store, nil)
	c.SelectProfile(99, "Ghost")

	_, err := c.LogRecord(sampleInput())
	assert.ErrorIs(t, err, storage.ErrForeignKeyViolation)
}

func TestViewHistory(t *testing.T) {
	want := []*models.Record{models.NewRecord(4, 120, 80, 70, 60, "2024-01-01")}
	var asked int64
	store := &fakeStore{recordsFn: func(profileID int64) ([]*models.Record, error) {
		asked = profileID
		return want, nil
	}}
	c := New(store, nil)

	_, err := c.ViewHistory()
	assert.ErrorIs(t, err, ErrNoProfileSelected)

	c.SelectProfile(4, "Dan")
	got, err := c.ViewHistory()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, int64(4), asked)
}

func TestCurrentProfile(t *testing.T) {
	store := &fakeStore{getFn: func(id int64) (*models.Profile, error) {
		return models.NewProfile("Alice").WithAge(30), nil
	}}
	c := New(store, nil)

	_, err := c.CurrentProfile()
	assert.ErrorIs(t, err, ErrNoProfileSelected)

	c.SelectProfile(1, "Alice")
	p, err := c.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	require.NotNil(t, p.Age)
	assert.Equal(t, 30, *p.Age)
}

func TestHistoryReturnsSelection(t *testing.T) {
	store := &fakeStore{recordsFn: func(profileID int64) ([]*models.Record, error) {
		return []*models.Record{{ID: 1, ProfileID: profileID}}, nil
	}}
	c := New(store, nil)

	_, _, err := c.History()
	assert.ErrorIs(t, err, ErrNoProfileSelected)

	c.SelectProfile(2, "Bob")
	sel, records, err := c.History()
	require.NoError(t, err)
	assert.Equal(t, Selection{ProfileID: 2, Name: "Bob"}, sel)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].ProfileID)
}

func TestHistoryConsistentUnderReselection(t *testing.T) {
	store := &fakeStore{recordsFn: func(profileID int64) ([]*models.Record, error) {
		return []*models.Record{{ID: profileID * 10, ProfileID: profileID}}, nil
	}}
	c := New(store, nil)
	c.SelectProfile(1, "Alice")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				c.SelectProfile(2, "Bob")
			} else {
				c.SelectProfile(1, "Alice")
			}
		}
	}()

	for i := 0; i < 500; i++ {
		sel, records, err := c.History()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, sel.ProfileID, records[0].ProfileID)
	}
	wg.Wait()
}

func TestSuggestedWeight(t *testing.T) {
	store := &fakeStore{lastWeightFn: func(profileID int64) (*float64, error) {
		if profileID == 1 {
			return ptr(70.2), nil
		}
		return nil, nil
	}}
	c := New(store, nil)

	_, err := c.SuggestedWeight()
	assert.ErrorIs(t, err, ErrNoProfileSelected)

	c.SelectProfile(1, "Alice")
	w, err := c.SuggestedWeight()
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, 70.2, *w)

	c.SelectProfile(2, "Bob")
	w, err = c.SuggestedWeight()
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestCreateProfileAutoSelects(t *testing.T) {
	store := &fakeStore{createFn: func(p *models.Profile) (int64, error) {
		p.ID = 5
		return 5, nil
	}}
	c := New(store, nil)

	p, err := c.CreateProfile("Eve", ptr(41), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	require.NotNil(t, p.Age)
	assert.Equal(t, 41, *p.Age)
	assert.Nil(t, p.Gender)

	sel, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, Selection{ProfileID: 5, Name: "Eve"}, sel)
}

func TestCreateProfileFailureKeepsSelection(t *testing.T) {
	store := &fakeStore{createFn: func(p *models.Profile) (int64, error) {
		return 0, storage.ErrDuplicateName
	}}
	c := New(store, nil)
	c.SelectProfile(1, "Alice")

	_, err := c.CreateProfile("Alice", nil, nil)
	assert.ErrorIs(t, err, storage.ErrDuplicateName)

	sel, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.ProfileID)
}

func TestCreateProfileEmptyName(t *testing.T) {
	called := false
	store := &fakeStore{createFn: func(p *models.Profile) (int64, error) {
		called = true
		return 1, nil
	}}
	c := New(store, nil)

	_, err := c.CreateProfile("", nil, nil)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.False(t, called)
}

func TestListProfilesNeedsNoSelection(t *testing.T) {
	store := &fakeStore{listFn: func() ([]models.ProfileSummary, error) {
		return []models.ProfileSummary{{ID: 1, Name: "Alice"}}, nil
	}}
	c := New(store, nil)

	profiles, err := c.ListProfiles()
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestSelectionLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := New(&fakeStore{}, zap.New(core))

	c.SelectProfile(1, "Alice")
	c.ClearSelection()

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "profile selected", entries[0].Message)
	assert.Equal(t, "session", entries[0].LoggerName)
	assert.Equal(t, "profile deselected", entries[1].Message)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(&fakeStore{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.SelectProfile(int64(i), "p")
			_, _ = c.LogRecord(sampleInput())
			_, _ = c.ViewHistory()
			c.Current()
		}(i)
	}
	wg.Wait()

	_, ok := c.Current()
	assert.True(t, ok)
}

// Scenarios against a real database.

func openStore(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "health.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestScenarioAliceEndToEnd(t *testing.T) {
	db := openStore(t)
	c := New(db, zaptest.NewLogger(t))

	p, err := c.CreateProfile("Alice", ptr(30), ptr("F"))
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)

	c.SelectProfile(1, "Alice")
	_, err = c.LogRecord(sampleInput())
	require.NoError(t, err)

	records, err := db.ListRecords(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 120, records[0].Systolic)
	assert.Equal(t, 80, records[0].Diastolic)
	assert.Equal(t, 70, records[0].Pulse)
	assert.Equal(t, 65.5, records[0].Weight)
	assert.Equal(t, "2024-01-01 08:00:00", records[0].MeasuredAt)
	require.NotNil(t, records[0].Position)
	assert.Equal(t, "sitting", *records[0].Position)

	w, err := db.LastWeightFor(1)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, 65.5, *w)

	_, err = c.CreateProfile("Alice", nil, nil)
	assert.True(t, errors.Is(err, storage.ErrDuplicateName))

	profiles, err := c.ListProfiles()
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestScenarioGuardsPreventWrites(t *testing.T) {
	db := openStore(t)
	c := New(db, nil)

	_, err := c.LogRecord(sampleInput())
	assert.ErrorIs(t, err, ErrNoProfileSelected)

	_, err = c.CreateProfile("Bob", nil, nil)
	require.NoError(t, err)

	in := sampleInput()
	in.Weight = nil
	_, err = c.LogRecord(in)
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	history, err := c.ViewHistory()
	require.NoError(t, err)
	assert.Empty(t, history, "rejected logs must not reach the store")
}
