package parser

import (
	"path/filepath"
	"strings"
)

// ParsedFile is the application model built from a Document: what the index
// and the show command work with.
type ParsedFile struct {
	Path       string
	Name       string
	Background []string
	Scenarios  []ParsedScenario
}

// ParsedScenario is a scenario with the background merged in front.
type ParsedScenario struct {
	Name    string
	Outline bool
	Tags    []string
	Steps   []string // background lines then the scenario's own contents
	Content string   // the scenario's own contents joined by newlines
	Line    int      // 1-based line number of Scenario: line
}

// Transform converts a Document into a ParsedFile. A feature with an empty
// name is named after the file.
func Transform(doc *Document, path string) *ParsedFile {
	pf := &ParsedFile{
		Path:       path,
		Name:       doc.Feature,
		Background: doc.Background,
	}
	if pf.Name == "" {
		pf.Name = filenameWithoutExt(path)
	}

	for _, sc := range doc.Scenarios {
		steps := make([]string, 0, len(doc.Background)+len(sc.Contents))
		steps = append(steps, trimTrailingBlank(doc.Background)...)
		steps = append(steps, sc.Contents...)

		pf.Scenarios = append(pf.Scenarios, ParsedScenario{
			Name:    sc.Name,
			Outline: sc.Outline,
			Tags:    sc.Tags,
			Steps:   trimTrailingBlank(steps),
			Content: strings.Join(trimTrailingBlank(sc.Contents), "\n"),
			Line:    sc.Line,
		})
	}

	return pf
}

// trimTrailingBlank drops the blank lines that separate one block from the
// next header.
func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}

func filenameWithoutExt(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
