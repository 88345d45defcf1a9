package parser

import (
	"regexp"
	"strings"
)

var (
	featurePattern  = regexp.MustCompile(`(?i)^feature:(.*)$`)
	scenarioPattern = regexp.MustCompile(`(?i)^scenario( outline)?:(.*)$`)
)

const (
	singleQuoteDelimiter = `'''`
	doubleQuoteDelimiter = `"""`
)

// IsQuoteDelimiter reports whether line opens or closes a verbatim block.
func IsQuoteDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == singleQuoteDelimiter || trimmed == doubleQuoteDelimiter
}

// IsBlankOrComment reports whether line is empty or starts with '#' once trimmed.
func IsBlankOrComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// IsComment reports whether line starts with '#' once trimmed.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// ParseTagLine returns the lowercased tag names of a line made only of
// @-prefixed tokens. A line with no tokens is not a tag line.
func ParseTagLine(line string) ([]string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if !strings.HasPrefix(f, "@") {
			return nil, false
		}
		tags = append(tags, strings.ToLower(f[1:]))
	}
	return tags, true
}

// ParseFeatureStart returns the name from a "Feature: <name>" line.
func ParseFeatureStart(line string) (string, bool) {
	m := featurePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// IsBackgroundStart reports whether line is exactly "Background:".
func IsBackgroundStart(line string) bool {
	return strings.ToLower(strings.TrimSpace(line)) == "background:"
}

// ParseScenarioStart matches "Scenario: <name>" and "Scenario Outline: <name>".
func ParseScenarioStart(line string) (ScenarioStart, bool) {
	m := scenarioPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ScenarioStart{}, false
	}
	return ScenarioStart{Name: strings.TrimSpace(m[2]), Outline: m[1] != ""}, true
}
