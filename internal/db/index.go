package db

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/chriserin/shallot/internal/parser"
)

// SyncResult says what SyncFile did to a file's index entry.
type SyncResult int

const (
	Unchanged SyncResult = iota
	Added
	Updated
)

func (r SyncResult) String() string {
	switch r {
	case Added:
		return "new"
	case Updated:
		return "upd"
	default:
		return "trk"
	}
}

type indexedScenario struct {
	id      int64
	name    string
	outline bool
	line    int
	tags    []string
}

// SyncFile records pf in the index. Scenarios keep their IDs across syncs as
// long as their name is unchanged; duplicate names are matched in file order.
func SyncFile(sqlDB *sql.DB, pf *parser.ParsedFile) (SyncResult, error) {
	tx, err := sqlDB.Begin()
	if err != nil {
		return Unchanged, fmt.Errorf("beginning sync of %s: %w", pf.Path, err)
	}
	defer tx.Rollback()

	result := Updated
	var fileID int64
	var feature string
	err = tx.QueryRow(`SELECT id, feature FROM files WHERE file_path = ?`, pf.Path).Scan(&fileID, &feature)
	if err == sql.ErrNoRows {
		res, err := tx.Exec(`INSERT INTO files (file_path, feature) VALUES (?, ?)`, pf.Path, pf.Name)
		if err != nil {
			return Unchanged, fmt.Errorf("inserting %s: %w", pf.Path, err)
		}
		if fileID, err = res.LastInsertId(); err != nil {
			return Unchanged, fmt.Errorf("inserting %s: %w", pf.Path, err)
		}
		result = Added
	} else if err != nil {
		return Unchanged, fmt.Errorf("querying %s: %w", pf.Path, err)
	}

	existing, err := loadScenarios(tx, fileID)
	if err != nil {
		return Unchanged, fmt.Errorf("loading scenarios of %s: %w", pf.Path, err)
	}
	if result == Updated && feature == pf.Name && sameScenarios(existing, pf.Scenarios) {
		return Unchanged, nil
	}

	ids := make(map[string][]int64)
	for _, sc := range existing {
		ids[sc.name] = append(ids[sc.name], sc.id)
	}

	for pos, sc := range pf.Scenarios {
		var id int64
		if free := ids[sc.Name]; len(free) > 0 {
			id, ids[sc.Name] = free[0], free[1:]
			if _, err := tx.Exec(`UPDATE scenarios SET outline = ?, line = ?, position = ?, updated_at = datetime('now') WHERE id = ?`,
				sc.Outline, sc.Line, pos, id); err != nil {
				return Unchanged, fmt.Errorf("updating scenario %q: %w", sc.Name, err)
			}
			if _, err := tx.Exec(`DELETE FROM scenario_tags WHERE scenario_id = ?`, id); err != nil {
				return Unchanged, fmt.Errorf("clearing tags of %q: %w", sc.Name, err)
			}
		} else {
			res, err := tx.Exec(`INSERT INTO scenarios (file_id, name, outline, line, position) VALUES (?, ?, ?, ?, ?)`,
				fileID, sc.Name, sc.Outline, sc.Line, pos)
			if err != nil {
				return Unchanged, fmt.Errorf("inserting scenario %q: %w", sc.Name, err)
			}
			if id, err = res.LastInsertId(); err != nil {
				return Unchanged, fmt.Errorf("inserting scenario %q: %w", sc.Name, err)
			}
		}

		for i, tag := range sc.Tags {
			if _, err := tx.Exec(`INSERT INTO scenario_tags (scenario_id, tag, position) VALUES (?, ?, ?)`, id, tag, i); err != nil {
				return Unchanged, fmt.Errorf("tagging scenario %q: %w", sc.Name, err)
			}
		}
	}

	for _, stale := range ids {
		for _, id := range stale {
			if err := deleteScenario(tx, id); err != nil {
				return Unchanged, err
			}
		}
	}

	if _, err := tx.Exec(`UPDATE files SET feature = ?, updated_at = datetime('now') WHERE id = ?`, pf.Name, fileID); err != nil {
		return Unchanged, fmt.Errorf("updating %s: %w", pf.Path, err)
	}

	if err := tx.Commit(); err != nil {
		return Unchanged, fmt.Errorf("committing sync of %s: %w", pf.Path, err)
	}
	return result, nil
}

// Prune removes every indexed file whose path is not in keep and returns the
// removed paths.
func Prune(sqlDB *sql.DB, keep []string) ([]string, error) {
	rows, err := sqlDB.Query(`SELECT id, file_path FROM files ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	type file struct {
		id   int64
		path string
	}
	var gone []file
	for rows.Next() {
		var f file
		if err := rows.Scan(&f.id, &f.path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		if !slices.Contains(keep, f.path) {
			gone = append(gone, f)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}

	var removed []string
	for _, f := range gone {
		tx, err := sqlDB.Begin()
		if err != nil {
			return removed, fmt.Errorf("removing %s: %w", f.path, err)
		}
		if err := deleteFile(tx, f.id); err != nil {
			tx.Rollback()
			return removed, fmt.Errorf("removing %s: %w", f.path, err)
		}
		if err := tx.Commit(); err != nil {
			return removed, fmt.Errorf("removing %s: %w", f.path, err)
		}
		removed = append(removed, f.path)
	}
	return removed, nil
}

func loadScenarios(tx *sql.Tx, fileID int64) ([]indexedScenario, error) {
	rows, err := tx.Query(`SELECT id, name, outline, line FROM scenarios WHERE file_id = ? ORDER BY position`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []indexedScenario
	for rows.Next() {
		var sc indexedScenario
		if err := rows.Scan(&sc.id, &sc.name, &sc.outline, &sc.line); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		tags, err := scenarioTags(tx, out[i].id)
		if err != nil {
			return nil, err
		}
		out[i].tags = tags
	}
	return out, nil
}

func scenarioTags(tx *sql.Tx, id int64) ([]string, error) {
	rows, err := tx.Query(`SELECT tag FROM scenario_tags WHERE scenario_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func sameScenarios(existing []indexedScenario, parsed []parser.ParsedScenario) bool {
	if len(existing) != len(parsed) {
		return false
	}
	for i, ps := range parsed {
		sc := existing[i]
		if sc.name != ps.Name || sc.outline != ps.Outline || sc.line != ps.Line || !slices.Equal(sc.tags, ps.Tags) {
			return false
		}
	}
	return true
}

func deleteScenario(tx *sql.Tx, id int64) error {
	if _, err := tx.Exec(`DELETE FROM scenario_tags WHERE scenario_id = ?`, id); err != nil {
		return fmt.Errorf("deleting tags of scenario %d: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM scenarios WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting scenario %d: %w", id, err)
	}
	return nil
}

func deleteFile(tx *sql.Tx, id int64) error {
	if _, err := tx.Exec(`DELETE FROM scenario_tags WHERE scenario_id IN (SELECT id FROM scenarios WHERE file_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM scenarios WHERE file_id = ?`, id); err != nil {
		return err
	}
	_, err := tx.Exec(`DELETE FROM files WHERE id = ?`, id)
	return err
}
