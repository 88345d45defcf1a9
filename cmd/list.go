package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chriserin/shallot/internal/config"
	"github.com/chriserin/shallot/internal/db"
	"github.com/chriserin/shallot/internal/ui"
	"github.com/spf13/cobra"
)

var (
	tagFlags    []string
	outlineFlag bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), cfg, tagFlags, outlineFlag)
	},
}

func init() {
	listCmd.Flags().StringSliceVarP(&tagFlags, "tag", "t", nil, "Only scenarios carrying every given tag")
	listCmd.Flags().BoolVar(&outlineFlag, "outline", false, "Only scenario outlines")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	id       int64
	fileName string
	name     string
	outline  bool
	tags     []string
}

// normalizeTags lowercases tag filters and drops a leading @.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "@")))
	}
	return out
}

func RunList(w io.Writer, cfg *config.Config, tags []string, outlineOnly bool) error {
	if err := requireInit(cfg); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT s.id, f.file_path, s.name, s.outline
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		ORDER BY f.file_path, s.position
	`)
	if err != nil {
		return fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		var filePath string
		if err := rows.Scan(&r.id, &filePath, &r.name, &r.outline); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.fileName = filepath.Base(filePath)
		if outlineOnly && !r.outline {
			continue
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	tagsByID, err := loadTags(sqlDB)
	if err != nil {
		return err
	}

	want := normalizeTags(tags)
	filtered := results[:0]
	for _, r := range results {
		r.tags = tagsByID[r.id]
		if hasAllTags(r.tags, want) {
			filtered = append(filtered, r)
		}
	}
	results = filtered

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, fileWidth, nameWidth := 0, 0, 0
	for _, r := range results {
		idWidth = max(idWidth, len(fmt.Sprintf("#%d", r.id)))
		fileWidth = max(fileWidth, len(r.fileName))
		nameWidth = max(nameWidth, len(r.name))
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.fileName, r.name, r.outline, r.tags, idWidth, fileWidth, nameWidth)
	}

	return nil
}

func loadTags(sqlDB *sql.DB) (map[int64][]string, error) {
	rows, err := sqlDB.Query(`SELECT scenario_id, tag FROM scenario_tags ORDER BY scenario_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}
	return tags, rows.Err()
}

func hasAllTags(have, want []string) bool {
	for _, t := range want {
		if !slices.Contains(have, t) {
			return false
		}
	}
	return true
}
