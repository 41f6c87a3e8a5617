package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

var _ types.SuspectLinkTable = (*suspectLinksTable)(nil)

type suspectLinksTable struct {
	backend *Backend
}

// suspectLinkReasons gives the duplicate triple its domain meaning.
var suspectLinkReasons = reasons{types.ConstraintUnique: types.ErrAlreadyLinked}

// Link ties a suspect to a case. The same suspect, case, and connection type
// can be linked once.
func (lt *suspectLinksTable) Link(ctx context.Context, l types.NewSuspectLink) (id int64, err error) {
	defer lt.backend.track("suspect_case_links.add", time.Now(), &err)

	db, err := lt.backend.handle()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO suspect_case_links (suspect_id, case_id, connection_type, notes, created_at) VALUES (?, ?, ?, ?, ?)",
		l.SuspectID, l.CaseID, l.ConnectionType, l.Notes, types.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("persisting suspect link: %w", classify(err, types.SuspectCaseLinksTable, suspectLinkReasons))
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("reading suspect link id: %w", err)
	}
	lt.backend.logger.Debug("suspect linked",
		zap.Int64("suspect_id", l.SuspectID), zap.Int64("case_id", l.CaseID), zap.String("connection_type", l.ConnectionType))
	return id, nil
}

// ForCase returns the case's suspect links with suspect names, newest first.
func (lt *suspectLinksTable) ForCase(ctx context.Context, caseID int64) (links []types.SuspectLink, err error) {
	defer lt.backend.track("suspect_case_links.for_case", time.Now(), &err)

	db, err := lt.backend.handle()
	if err != nil {
		return nil, err
	}
	err = db.SelectContext(ctx, &links, `SELECT scl.id, scl.suspect_id, scl.case_id, scl.connection_type, scl.notes, scl.created_at,
       s.name AS suspect_name
FROM suspect_case_links scl
JOIN suspects s ON s.id = scl.suspect_id
WHERE scl.case_id = ?
ORDER BY scl.created_at DESC, scl.id DESC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing suspect links for case %d: %w", caseID, err)
	}
	return links, nil
}

// ForSuspect returns the suspect's case links with case title, date, status
// and the case's crime types joined by ", " in primary-first order.
func (lt *suspectLinksTable) ForSuspect(ctx context.Context, suspectID int64) (links []types.SuspectLink, err error) {
	defer lt.backend.track("suspect_case_links.for_suspect", time.Now(), &err)

	db, err := lt.backend.handle()
	if err != nil {
		return nil, err
	}
	err = db.SelectContext(ctx, &links, `SELECT scl.id, scl.suspect_id, scl.case_id, scl.connection_type, scl.notes, scl.created_at,
       c.title AS case_title, c.date_occurred AS case_date_occurred, c.status AS case_status
FROM suspect_case_links scl
JOIN cases c ON c.id = scl.case_id
WHERE scl.suspect_id = ?
ORDER BY scl.created_at DESC, scl.id DESC`, suspectID)
	if err != nil {
		return nil, fmt.Errorf("listing case links for suspect %d: %w", suspectID, err)
	}
	if len(links) == 0 {
		return links, nil
	}

	ids := make([]int64, len(links))
	for i, l := range links {
		ids[i] = l.CaseID
	}
	crimeTypes, err := crimeTypesFor(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range links {
		links[i].CrimeTypes = strings.Join(crimeTypes[links[i].CaseID], ", ")
	}
	return links, nil
}

func (lt *suspectLinksTable) Delete(ctx context.Context, id int64) (err error) {
	defer lt.backend.track("suspect_case_links.delete", time.Now(), &err)

	db, err := lt.backend.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM suspect_case_links WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting suspect link %d: %w", id, err)
	}
	return nil
}
