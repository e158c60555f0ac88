package track

import (
	"database/sql"

	"github.com/pfmech/cracktip/tip"
)

const tipRecordsSchema = `
CREATE TABLE IF NOT EXISTS tip_records (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    crack_id    TEXT NOT NULL,
    step        INTEGER NOT NULL,
    time        REAL NOT NULL,
    tip_x       REAL NOT NULL,
    tip_y       REAL NOT NULL,
    tip_z       REAL NOT NULL,
    found       INTEGER NOT NULL,
    reason      INTEGER NOT NULL,
    dir_x       REAL NOT NULL DEFAULT 0,
    dir_y       REAL NOT NULL DEFAULT 0,
    dir_z       REAL NOT NULL DEFAULT 0,
    speed       REAL NOT NULL DEFAULT 0
);
`

const tipRecordsIndex = `
CREATE INDEX IF NOT EXISTS idx_tip_records_crack_step
ON tip_records(crack_id, step);
`

// Store appends per-timestep tip records to SQLite so trajectories
// survive the process and can be queried per crack afterwards.
type Store struct {
	db *sql.DB
}

// NewStore initializes the tip_records table and returns a Store.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(tipRecordsSchema); err != nil {
		return nil, err
	}
	if _, err := db.Exec(tipRecordsIndex); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// RecordStep persists one record.
func (s *Store) RecordStep(rec Record) error {
	found := 0
	if rec.Found {
		found = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO tip_records
		(crack_id, step, time, tip_x, tip_y, tip_z, found, reason,
		 dir_x, dir_y, dir_z, speed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.CrackID,
		rec.Step,
		rec.Time,
		rec.Tip.X,
		rec.Tip.Y,
		rec.Tip.Z,
		found,
		int(rec.Reason),
		rec.Direction.X,
		rec.Direction.Y,
		rec.Direction.Z,
		rec.Speed,
	)
	return err
}

// Trajectory returns one crack's records ordered by step.
func (s *Store) Trajectory(crackID string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT step, time, tip_x, tip_y, tip_z, found, reason,
		       dir_x, dir_y, dir_z, speed
		FROM tip_records
		WHERE crack_id = ?
		ORDER BY step ASC`,
		crackID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec := Record{CrackID: crackID}
		var found, reason int
		if err := rows.Scan(&rec.Step, &rec.Time,
			&rec.Tip.X, &rec.Tip.Y, &rec.Tip.Z, &found, &reason,
			&rec.Direction.X, &rec.Direction.Y, &rec.Direction.Z,
			&rec.Speed); err != nil {
			return nil, err
		}
		rec.Found = found != 0
		rec.Reason = tip.Reason(reason)
		records = append(records, rec)
	}
	return records, rows.Err()
}
