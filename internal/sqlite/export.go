package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

// ManifestFile is written next to the table files of an export.
const ManifestFile = "manifest.json"

// Export writes each table to dir/<table>.jsonl, one JSON object per row in
// id order, and then dir/manifest.json. All tables are read in one
// transaction so the files describe a single state of the store. Every file
// is replaced atomically.
func (b *Backend) Export(ctx context.Context, dir string) (m types.ExportManifest, err error) {
	defer b.track("store.export", time.Now(), &err)

	id, err := uuid.NewV7()
	if err != nil {
		return m, fmt.Errorf("generating export id: %w", err)
	}
	version, err := b.SchemaVersion(ctx)
	if err != nil {
		return m, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return m, fmt.Errorf("creating export dir: %w", err)
	}

	m = types.ExportManifest{
		ExportID:      id.String(),
		ExportedAt:    types.Now(),
		SchemaVersion: version,
		Tables:        make(map[string]int, len(types.StandardTableNames)),
	}

	err = b.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range types.StandardTableNames {
			records, err := tableRecords(ctx, tx, table)
			if err != nil {
				return err
			}
			if err := writeJSONL(filepath.Join(dir, table+".jsonl"), records); err != nil {
				return fmt.Errorf("writing %s: %w", table, err)
			}
			m.Tables[table] = len(records)
		}
		return nil
	})
	if err != nil {
		return m, err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return m, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := writeJSONL(filepath.Join(dir, ManifestFile), []json.RawMessage{data}); err != nil {
		return m, fmt.Errorf("writing manifest: %w", err)
	}

	b.logger.Debug("store exported", zap.String("dir", dir), zap.String("export_id", m.ExportID))
	return m, nil
}

// tableRecords reads every row of table as a JSON object keyed by column
// name. Legacy columns are included as stored.
func tableRecords(ctx context.Context, q sqlx.QueryerContext, table string) ([]json.RawMessage, error) {
	rows, err := q.QueryxContext(ctx, "SELECT * FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}
	defer rows.Close()

	records := []json.RawMessage{}
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		for k, v := range row {
			if bs, ok := v.([]byte); ok {
				row[k] = string(bs)
			}
		}
		rec, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("encoding %s row: %w", table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}
	return records, nil
}

// writeJSONL replaces path with records, one per line, through a synced
// temp file in the same directory.
func writeJSONL(path string, records []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
