package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

var _ types.SuspectTable = (*suspectsTable)(nil)

type suspectsTable struct {
	backend *Backend
}

const suspectColumns = "id, name, description, known_aliases, created_at"

func (st *suspectsTable) Add(ctx context.Context, s types.NewSuspect) (id int64, err error) {
	defer st.backend.track("suspects.add", time.Now(), &err)

	db, err := st.backend.handle()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO suspects (name, description, known_aliases, created_at) VALUES (?, ?, ?, ?)",
		s.Name, s.Description, s.KnownAliases, types.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting suspect: %w", classify(err, types.SuspectsTable, nil))
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("reading suspect id: %w", err)
	}
	st.backend.logger.Debug("suspect added", zap.Int64("suspect_id", id))
	return id, nil
}

// Get returns the suspect, or nil when absent.
func (st *suspectsTable) Get(ctx context.Context, id int64) (s *types.Suspect, err error) {
	defer st.backend.track("suspects.get", time.Now(), &err)

	db, err := st.backend.handle()
	if err != nil {
		return nil, err
	}
	var row types.Suspect
	if err := db.GetContext(ctx, &row, "SELECT "+suspectColumns+" FROM suspects WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting suspect %d: %w", id, err)
	}
	return &row, nil
}

// List returns suspects by name.
func (st *suspectsTable) List(ctx context.Context) (suspects []types.Suspect, err error) {
	defer st.backend.track("suspects.list", time.Now(), &err)

	db, err := st.backend.handle()
	if err != nil {
		return nil, err
	}
	if err := db.SelectContext(ctx, &suspects, "SELECT "+suspectColumns+" FROM suspects ORDER BY name, id"); err != nil {
		return nil, fmt.Errorf("listing suspects: %w", err)
	}
	return suspects, nil
}

func (st *suspectsTable) Update(ctx context.Context, id int64, patch types.SuspectPatch) (err error) {
	defer st.backend.track("suspects.update", time.Now(), &err)

	if patch.Empty() {
		return nil
	}
	db, err := st.backend.handle()
	if err != nil {
		return err
	}

	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update("suspects")
	var assigns []string
	if patch.Name != nil {
		assigns = append(assigns, ub.Assign("name", *patch.Name))
	}
	if patch.Description != nil {
		assigns = append(assigns, ub.Assign("description", *patch.Description))
	}
	if patch.KnownAliases != nil {
		assigns = append(assigns, ub.Assign("known_aliases", *patch.KnownAliases))
	}
	ub.Set(assigns...)
	ub.Where(ub.Equal("id", id))
	query, args := ub.Build()

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating suspect %d: %w", id, classify(err, types.SuspectsTable, nil))
	}
	return nil
}

// Delete removes the suspect with its history and case links.
func (st *suspectsTable) Delete(ctx context.Context, id int64) (err error) {
	defer st.backend.track("suspects.delete", time.Now(), &err)

	db, err := st.backend.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM suspects WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting suspect %d: %w", id, err)
	}
	st.backend.logger.Debug("suspect deleted", zap.Int64("suspect_id", id))
	return nil
}
