package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFinalized is returned by a Parser that already produced its Document.
var ErrFinalized = errors.New("parser already finalized")

// UnexpectedLineError is content other than tags or Feature: before the
// feature declaration.
type UnexpectedLineError struct {
	Line int
	Text string
}

func (e *UnexpectedLineError) Error() string {
	return fmt.Sprintf("line %d: unexpected content before feature declaration: %q", e.Line, e.Text)
}

// TagPlacementError is a tag line directly before Background:.
type TagPlacementError struct {
	Line int
	Tags []string
}

func (e *TagPlacementError) Error() string {
	return fmt.Sprintf("line %d: tags before background: @%s", e.Line, strings.Join(e.Tags, " @"))
}

// IncompleteDocumentError is end of input in a mode with no complete body.
type IncompleteDocumentError struct {
	Line int
	Mode Mode
}

func (e *IncompleteDocumentError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("incomplete document: no input (ended in %s)", e.Mode)
	}
	return fmt.Sprintf("line %d: incomplete document: input ended in %s", e.Line, e.Mode)
}

// LineOf returns the 1-based line number carried by a parse error, or 0.
func LineOf(err error) int {
	var unexpected *UnexpectedLineError
	var placement *TagPlacementError
	var incomplete *IncompleteDocumentError
	switch {
	case errors.As(err, &unexpected):
		return unexpected.Line
	case errors.As(err, &placement):
		return placement.Line
	case errors.As(err, &incomplete):
		return incomplete.Line
	}
	return 0
}
