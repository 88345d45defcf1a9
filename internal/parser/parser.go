package parser

import (
	"strings"
)

// Parser consumes a feature file one line at a time. It is not safe for
// concurrent use; run one Parser per input.
type Parser struct {
	mode Mode
	line int

	fileTags    []string
	pendingTags []string
	quote       string // open verbatim delimiter, "" outside a block

	feature    string
	background []string
	scenarios  []Scenario
	current    *Scenario

	err       error
	finalized bool
}

// New returns a Parser in the opening mode.
func New() *Parser {
	return &Parser{mode: ModeOpening}
}

// Mode returns the current mode.
func (p *Parser) Mode() Mode { return p.mode }

// Line returns the number of lines fed so far.
func (p *Parser) Line() int { return p.line }

// Feed consumes one line, with or without its trailing newline. Any error is
// fatal: the same error is returned by every later call.
func (p *Parser) Feed(line string) error {
	if p.err != nil {
		return p.err
	}
	if p.finalized {
		return ErrFinalized
	}
	p.line++

	switch {
	case p.quote == "" && IsQuoteDelimiter(line):
		p.quote = strings.TrimSpace(line)
	case p.quote != "" && strings.TrimSpace(line) == p.quote:
		p.quote = ""
	case p.quote == "" && IsComment(line):
		return nil
	case p.quote == "" && IsBlankOrComment(line) && !p.inBody():
		return nil
	}

	if err := p.dispatch(line); err != nil {
		p.err = err
		return err
	}
	return nil
}

// Finalize ends the input and returns the Document. Only the scenario mode
// has a valid end of input.
func (p *Parser) Finalize() (*Document, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.finalized {
		return nil, ErrFinalized
	}

	switch p.mode {
	case ModeScenario:
		p.closeScenario()
	case ModeOpening, ModeFeature, ModeBackground:
		p.err = &IncompleteDocumentError{Line: p.line, Mode: p.mode}
		return nil, p.err
	}
	p.finalized = true

	doc := &Document{
		Feature:    p.feature,
		Tags:       p.fileTags,
		Background: p.background,
		Scenarios:  p.scenarios,
	}
	if doc.Background == nil {
		doc.Background = []string{}
	}
	p.fileTags, p.background, p.scenarios = nil, nil, nil
	return doc, nil
}

func (p *Parser) inBody() bool {
	return p.mode == ModeBackground || p.mode == ModeScenario
}

func (p *Parser) dispatch(line string) error {
	switch p.mode {
	case ModeOpening:
		return p.opening(line)
	case ModeFeature:
		return p.inFeature(line)
	case ModeBackground:
		p.inBackground(line)
	case ModeScenario:
		p.inScenario(line)
	}
	return nil
}

func (p *Parser) opening(line string) error {
	if tags, ok := ParseTagLine(line); ok {
		p.fileTags = append(p.fileTags, tags...)
		return nil
	}
	if name, ok := ParseFeatureStart(line); ok {
		p.feature = name
		p.mode = ModeFeature
		return nil
	}
	return &UnexpectedLineError{Line: p.line, Text: strings.TrimSuffix(line, "\n")}
}

func (p *Parser) inFeature(line string) error {
	// Prose and verbatim blocks under the feature line are discarded.
	if p.quote != "" || IsQuoteDelimiter(line) {
		return nil
	}
	if IsBackgroundStart(line) {
		p.mode = ModeBackground
		if len(p.pendingTags) > 0 {
			return &TagPlacementError{Line: p.line, Tags: p.pendingTags}
		}
		return nil
	}
	if start, ok := ParseScenarioStart(line); ok {
		p.startScenario(start)
		return nil
	}
	if tags, ok := ParseTagLine(line); ok {
		p.pendingTags = append(p.pendingTags, tags...)
	}
	return nil
}

func (p *Parser) inBackground(line string) {
	if p.quote == "" {
		if tags, ok := ParseTagLine(line); ok {
			p.pendingTags = append(p.pendingTags, tags...)
			return
		}
		if start, ok := ParseScenarioStart(line); ok {
			p.startScenario(start)
			return
		}
	}
	p.background = append(p.background, stripNewline(line))
}

func (p *Parser) inScenario(line string) {
	if p.quote == "" {
		if tags, ok := ParseTagLine(line); ok {
			p.pendingTags = append(p.pendingTags, tags...)
			return
		}
		if start, ok := ParseScenarioStart(line); ok {
			p.startScenario(start)
			return
		}
	}
	p.current.Contents = append(p.current.Contents, stripNewline(line))
}

func (p *Parser) startScenario(start ScenarioStart) {
	p.closeScenario()
	p.current = &Scenario{
		Name:     start.Name,
		Outline:  start.Outline,
		Tags:     dedup(p.fileTags, p.pendingTags),
		Contents: []string{},
		Line:     p.line,
	}
	p.pendingTags = nil
	p.mode = ModeScenario
}

func (p *Parser) closeScenario() {
	if p.current == nil {
		return
	}
	p.scenarios = append(p.scenarios, *p.current)
	p.current = nil
}

// dedup concatenates lists keeping the first occurrence of each tag.
func dedup(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, tag := range list {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

func stripNewline(line string) string {
	return strings.TrimSuffix(line, "\n")
}
