// ABOUTME: Record CRUD operations for SQLite storage.
// ABOUTME: Records are ordered by measured_at string descending, then id descending.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/healthtrack/internal/models"
	"go.uber.org/zap"
)

// AddRecord stores a new record and returns its assigned id. The id is also
// written back to r. It fails with ErrForeignKeyViolation if r.ProfileID does
// not reference an existing profile.
func (d *DB) AddRecord(r *models.Record) (int64, error) {
	var id int64
	err := d.withTx("add record", func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM Profiles WHERE id = ?`, r.ProfileID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrForeignKeyViolation, r.ProfileID)
		}
		if err != nil {
			return err
		}

		res, err := tx.Exec(`
			INSERT INTO Records (profile_id, systolic, diastolic, pulse, weight, measured_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ProfileID, r.Systolic, r.Diastolic, r.Pulse, r.Weight, r.MeasuredAt, r.Position)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	r.ID = id
	d.log.Debug("record added", zap.Int64("id", id), zap.Int64("profile_id", r.ProfileID))
	return id, nil
}

// ListRecords returns a profile's records newest first. measured_at is
// compared as a string; equal values fall back to insertion order, newest first.
func (d *DB) ListRecords(profileID int64) ([]*models.Record, error) {
	records := []*models.Record{}
	err := d.withTx("list records", func(tx *sql.Tx) error {
		rows, err := tx.Query(`
			SELECT id, profile_id, systolic, diastolic, pulse, weight, measured_at, position
			FROM Records
			WHERE profile_id = ?
			ORDER BY measured_at DESC, id DESC`, profileID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r models.Record
			var position sql.NullString

			err := rows.Scan(&r.ID, &r.ProfileID, &r.Systolic, &r.Diastolic, &r.Pulse,
				&r.Weight, &r.MeasuredAt, &position)
			if err != nil {
				return err
			}
			if position.Valid {
				r.Position = &position.String
			}
			records = append(records, &r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LastWeightFor returns the weight of the profile's newest record under the
// ListRecords ordering, or nil when the profile has no records.
func (d *DB) LastWeightFor(profileID int64) (*float64, error) {
	var weight sql.NullFloat64
	err := d.withTx("last weight", func(tx *sql.Tx) error {
		err := tx.QueryRow(`
			SELECT weight FROM Records
			WHERE profile_id = ?
			ORDER BY measured_at DESC, id DESC
			LIMIT 1`, profileID).Scan(&weight)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !weight.Valid {
		return nil, nil
	}
	w := weight.Float64
	return &w, nil
}
