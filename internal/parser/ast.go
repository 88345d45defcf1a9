package parser

// Document is the result of a finished parse session.
type Document struct {
	Feature    string
	Tags       []string // tags declared before the Feature: line
	Background []string
	Scenarios  []Scenario
}

// Scenario is a Scenario: or Scenario Outline: block and its raw step lines.
type Scenario struct {
	Name     string
	Outline  bool
	Tags     []string // file tags then the scenario's own, deduplicated
	Contents []string
	Line     int // 1-based line number of the Scenario: line
}

// ScenarioStart is the payload of a scenario header line.
type ScenarioStart struct {
	Name    string
	Outline bool
}

// Mode is the state of a Parser.
type Mode int

const (
	ModeOpening Mode = iota
	ModeFeature
	ModeBackground
	ModeScenario
)

func (m Mode) String() string {
	switch m {
	case ModeOpening:
		return "opening"
	case ModeFeature:
		return "feature"
	case ModeBackground:
		return "background"
	case ModeScenario:
		return "scenario"
	default:
		return "unknown"
	}
}
