package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

// AddHistory records one criminal history entry for a suspect.
func (st *suspectsTable) AddHistory(ctx context.Context, e types.NewHistoryEntry) (id int64, err error) {
	defer st.backend.track("suspect_crime_history.add", time.Now(), &err)

	db, err := st.backend.handle()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO suspect_crime_history
    (suspect_id, crime_type, date_of_crime, conviction_status, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		e.SuspectID, e.CrimeType, e.DateOfCrime, e.ConvictionStatus, e.Notes, types.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting history entry: %w", classify(err, types.SuspectCrimeHistTable, nil))
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("reading history entry id: %w", err)
	}
	st.backend.logger.Debug("history entry added", zap.Int64("suspect_id", e.SuspectID), zap.Int64("entry_id", id))
	return id, nil
}

// History returns the suspect's entries, most recent crime date first.
// Undated entries follow all dated ones; ties fall back to newest creation.
func (st *suspectsTable) History(ctx context.Context, suspectID int64) (entries []types.HistoryEntry, err error) {
	defer st.backend.track("suspect_crime_history.list", time.Now(), &err)

	db, err := st.backend.handle()
	if err != nil {
		return nil, err
	}
	err = db.SelectContext(ctx, &entries, `SELECT id, suspect_id, crime_type, date_of_crime, conviction_status, notes, created_at
FROM suspect_crime_history
WHERE suspect_id = ?
ORDER BY date_of_crime IS NULL, date_of_crime DESC, created_at DESC, id DESC`, suspectID)
	if err != nil {
		return nil, fmt.Errorf("listing history for suspect %d: %w", suspectID, err)
	}
	return entries, nil
}

func (st *suspectsTable) DeleteHistory(ctx context.Context, id int64) (err error) {
	defer st.backend.track("suspect_crime_history.delete", time.Now(), &err)

	db, err := st.backend.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM suspect_crime_history WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting history entry %d: %w", id, err)
	}
	return nil
}
