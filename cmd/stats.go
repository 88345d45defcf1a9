package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/shallot/internal/config"
	"github.com/chriserin/shallot/internal/db"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the scenario index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStats(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func RunStats(w io.Writer, cfg *config.Config) error {
	if err := requireInit(cfg); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	var files, scenarios, outlines int
	err = sqlDB.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM files),
			COUNT(*),
			COALESCE(SUM(outline), 0)
		FROM scenarios
	`).Scan(&files, &scenarios, &outlines)
	if err != nil {
		return fmt.Errorf("counting scenarios: %w", err)
	}

	fmt.Fprintf(w, "Files: %d\n", files)
	fmt.Fprintf(w, "Scenarios: %d (%d outlines)\n", scenarios, outlines)

	if scenarios == 0 {
		return nil
	}

	rows, err := sqlDB.Query(`
		SELECT tag, COUNT(*) AS cnt
		FROM scenario_tags
		GROUP BY tag
		ORDER BY cnt DESC, tag
	`)
	if err != nil {
		return fmt.Errorf("querying tag counts: %w", err)
	}
	defer rows.Close()

	first := true
	for rows.Next() {
		var tag string
		var cnt int
		if err := rows.Scan(&tag, &cnt); err != nil {
			return fmt.Errorf("scanning tag row: %w", err)
		}
		if first {
			fmt.Fprintln(w, "Tags:")
			first = false
		}
		fmt.Fprintf(w, "  @%s: %d\n", tag, cnt)
	}

	return rows.Err()
}
