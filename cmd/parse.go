package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/shallot/internal/parser"
	"github.com/chriserin/shallot/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var formatFlag string

var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Parse one feature file and print its structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunParse(cmd.OutOrStdout(), cmd.InOrStdin(), args[0], formatFlag)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json, yaml or text")
	rootCmd.AddCommand(parseCmd)
}

type scenarioOutput struct {
	Name     string   `json:"name" yaml:"name"`
	Outline  bool     `json:"outline" yaml:"outline"`
	Tags     []string `json:"tags" yaml:"tags"`
	Contents []string `json:"contents" yaml:"contents"`
	Line     int      `json:"line" yaml:"line"`
}

type documentOutput struct {
	Feature    string           `json:"feature" yaml:"feature"`
	Background []string         `json:"background" yaml:"background"`
	Scenarios  []scenarioOutput `json:"scenarios" yaml:"scenarios"`
}

func newDocumentOutput(doc *parser.Document) documentOutput {
	out := documentOutput{
		Feature:    doc.Feature,
		Background: doc.Background,
		Scenarios:  make([]scenarioOutput, 0, len(doc.Scenarios)),
	}
	for _, sc := range doc.Scenarios {
		out.Scenarios = append(out.Scenarios, scenarioOutput(sc))
	}
	return out
}

// RunParse parses path, or in when path is "-", and prints the Document.
func RunParse(w io.Writer, in io.Reader, path, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("unknown format %q: use json, yaml or text", format)
	}

	var doc *parser.Document
	var err error
	if path == "-" {
		doc, err = parser.Parse(in)
		path = "<stdin>"
	} else {
		doc, err = parser.ParseFile(path)
	}
	if err != nil {
		logger.Debug("parse failed", "path", path, "line", parser.LineOf(err))
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("parsed", "path", path, "scenarios", len(doc.Scenarios))

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocumentOutput(doc)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "text":
		printDocument(w, doc)
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newDocumentOutput(doc)); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}

func printDocument(w io.Writer, doc *parser.Document) {
	if tags := ui.Tags(doc.Tags); tags != "" {
		fmt.Fprintln(w, tags)
	}
	ui.Heading(w, "Feature: "+doc.Feature)

	if len(doc.Background) > 0 {
		fmt.Fprintln(w)
		ui.ShowGherkin(w, "  Background:\n"+strings.Join(trimBlankTail(doc.Background), "\n"))
	}

	for _, sc := range doc.Scenarios {
		fmt.Fprintln(w)
		if tags := ui.Tags(sc.Tags); tags != "" {
			fmt.Fprintln(w, "  "+tags)
		}
		ui.ShowGherkin(w, fmt.Sprintf("  %s %s  (line %d)", scenarioKeyword(sc.Outline), sc.Name, sc.Line))
		if body := trimBlankTail(sc.Contents); len(body) > 0 {
			ui.ShowGherkin(w, strings.Join(body, "\n"))
		}
	}
}
