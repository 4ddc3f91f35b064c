// ABOUTME: Transaction scope used by every store operation.
// ABOUTME: Commits on success, rolls back on every other exit path.
package storage

import "database/sql"

// withTx runs fn in a transaction. Any error from fn or from commit is
// classified under op; the transaction is rolled back unless commit succeeded.
func (d *DB) withTx(op string, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return classify(op, err)
	}
	// No-op after a successful commit; also covers panics in fn.
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return classify(op, err)
	}
	if err := tx.Commit(); err != nil {
		return classify(op, err)
	}
	return nil
}
