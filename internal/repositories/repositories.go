package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/spotlist/internal/shared"
)

// sequenceTables lists the tables whose <table>_sequence counter is created by the migrations.
var sequenceTables = map[string]bool{
	"playlists": true,
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

// NextSequence increments and returns the counter that numbers entries of table (#1, #2, ...).
//
// The increment and read happen in one UPDATE ... RETURNING statement. Run it on the transaction that
// inserts the entry so a rollback gives the number back.
func NextSequence(db queryRower, table string) (int, error) {
	if !sequenceTables[table] {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidArgument, table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("sequence for %s is not initialised", table)
		}
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	return sequence, nil
}
