package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chriserin/shallot/internal/config"
	"github.com/chriserin/shallot/internal/db"
	"github.com/chriserin/shallot/internal/parser"
	"github.com/chriserin/shallot/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a scenario by ID, with the background it runs after",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, cfg *config.Config, rawID string) error {
	rawID = strings.TrimPrefix(rawID, "#")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scenario ID: %s", rawID)
	}

	if err := requireInit(cfg); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	var name, filePath string
	var line int
	err = sqlDB.QueryRow(`
		SELECT s.name, s.line, f.file_path
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE s.id = ?
	`, id).Scan(&name, &line, &filePath)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("scenario %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("querying scenario %d: %w", id, err)
	}

	doc, err := parser.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	pf := parser.Transform(doc, filePath)

	matched := findScenario(pf, name, line)
	if matched == nil {
		return fmt.Errorf("scenario %d not found in %s; run `shallot sync`", id, filePath)
	}

	ui.ShowHeader(w, id, filepath.Base(filePath), matched.Line)
	if tags := ui.Tags(matched.Tags); tags != "" {
		fmt.Fprintln(w, tags)
	}

	fmt.Fprintln(w)
	ui.ShowGherkin(w, "Feature: "+pf.Name)

	if bg := trimBlankTail(pf.Background); len(bg) > 0 {
		fmt.Fprintln(w)
		ui.ShowGherkin(w, "  Background:\n"+strings.Join(bg, "\n"))
	}

	fmt.Fprintln(w)
	ui.ShowGherkin(w, "  "+scenarioKeyword(matched.Outline)+" "+matched.Name)
	if matched.Content != "" {
		ui.ShowGherkin(w, matched.Content)
	}

	return nil
}

// findScenario prefers the scenario at the indexed line and falls back to
// the first one with the same name.
func findScenario(pf *parser.ParsedFile, name string, line int) *parser.ParsedScenario {
	for i := range pf.Scenarios {
		if pf.Scenarios[i].Name == name && pf.Scenarios[i].Line == line {
			return &pf.Scenarios[i]
		}
	}
	for i := range pf.Scenarios {
		if pf.Scenarios[i].Name == name {
			return &pf.Scenarios[i]
		}
	}
	return nil
}

func scenarioKeyword(outline bool) string {
	if outline {
		return "Scenario Outline:"
	}
	return "Scenario:"
}

func trimBlankTail(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
