// ABOUTME: Profile CRUD operations for SQLite storage.
// ABOUTME: Name uniqueness is enforced by the schema and reported as ErrDuplicateName.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/healthtrack/internal/models"
	"go.uber.org/zap"
)

// CreateProfile stores a new profile and returns its assigned id.
// The id is also written back to p.
func (d *DB) CreateProfile(p *models.Profile) (int64, error) {
	var id int64
	err := d.withTx("create profile", func(tx *sql.Tx) error {
		res, err := tx.Exec(`INSERT INTO Profiles (name, age, gender) VALUES (?, ?, ?)`,
			p.Name, p.Age, p.Gender)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return 0, fmt.Errorf("%w: %q", err, p.Name)
		}
		return 0, err
	}

	p.ID = id
	d.log.Debug("profile created", zap.Int64("id", id), zap.String("name", p.Name))
	return id, nil
}

// ListProfiles returns every profile in creation order. An empty store
// yields an empty slice, not an error.
func (d *DB) ListProfiles() ([]models.ProfileSummary, error) {
	profiles := []models.ProfileSummary{}
	err := d.withTx("list profiles", func(tx *sql.Tx) error {
		rows, err := tx.Query(`SELECT id, name FROM Profiles ORDER BY id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p models.ProfileSummary
			if err := rows.Scan(&p.ID, &p.Name); err != nil {
				return err
			}
			profiles = append(profiles, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetProfile retrieves a full profile by id.
func (d *DB) GetProfile(id int64) (*models.Profile, error) {
	var p models.Profile
	err := d.withTx("get profile", func(tx *sql.Tx) error {
		var age sql.NullInt64
		var gender sql.NullString

		err := tx.QueryRow(`SELECT id, name, age, gender FROM Profiles WHERE id = ?`, id).
			Scan(&p.ID, &p.Name, &age, &gender)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrProfileNotFound, id)
		}
		if err != nil {
			return err
		}

		if age.Valid {
			v := int(age.Int64)
			p.Age = &v
		}
		if gender.Valid {
			p.Gender = &gender.String
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
