package parser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_FeatureName(t *testing.T) {
	doc, err := ParseString("Feature: Login\n  Scenario: User logs in\n    Given a user\n")
	require.NoError(t, err)

	pf := Transform(doc, "features/login.feature")
	assert.Equal(t, "Login", pf.Name)
	assert.Equal(t, "features/login.feature", pf.Path)
}

func TestTransform_EmptyFeatureNameUsesFilename(t *testing.T) {
	doc, err := ParseString("Feature:\n  Scenario: A\n")
	require.NoError(t, err)

	pf := Transform(doc, "features/checkout.feature")
	assert.Equal(t, "checkout", pf.Name)
}

func TestTransform_MergesBackground(t *testing.T) {
	doc, err := ParseString(`Feature: Login
  Background:
    Given a registered user

  Scenario: User logs in
    When they log in

  Scenario: User logs out
    When they log out
`)
	require.NoError(t, err)

	pf := Transform(doc, "login.feature")
	require.Len(t, pf.Scenarios, 2)
	assert.Equal(t, []string{"    Given a registered user", "    When they log in"}, pf.Scenarios[0].Steps)
	assert.Equal(t, []string{"    Given a registered user", "    When they log out"}, pf.Scenarios[1].Steps)
	assert.Equal(t, "    When they log in", pf.Scenarios[0].Content)
}

func TestTransform_CarriesScenarioFields(t *testing.T) {
	doc, err := ParseString(canonicalFeature)
	require.NoError(t, err)

	pf := Transform(doc, "shallot.feature")
	require.Len(t, pf.Scenarios, 2)
	outline := pf.Scenarios[1]
	assert.True(t, outline.Outline)
	assert.Equal(t, []string{"shallot", "feature"}, outline.Tags)
	assert.Equal(t, 16, outline.Line)
	assert.True(t, strings.HasPrefix(outline.Content, "\t\tWith support for the following\n\t\t\t\"\"\""))
	assert.True(t, strings.HasSuffix(outline.Content, "| lexing  |"))
}

func TestParse_ReaderWithoutTrailingNewline(t *testing.T) {
	doc, err := Parse(strings.NewReader("Feature: F\nScenario: A\n  last step"))
	require.NoError(t, err)
	assert.Equal(t, []string{"  last step"}, doc.Scenarios[0].Contents)
}

func TestParse_OneByteReader(t *testing.T) {
	doc, err := Parse(iotest.OneByteReader(strings.NewReader(canonicalFeature)))
	require.NoError(t, err)
	require.Len(t, doc.Scenarios, 2)
	assert.Equal(t, "As well as scenario outlines", doc.Scenarios[1].Name)
}

func TestParse_CoreErrorReturnedUnchanged(t *testing.T) {
	_, err := ParseString("Scenario: X\n")

	var target *UnexpectedLineError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 1, LineOf(err))
}

func TestParse_ReadErrorWrapped(t *testing.T) {
	r := iotest.TimeoutReader(strings.NewReader("Feature: F\n"))
	_, err := Parse(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, iotest.ErrTimeout)
	assert.Contains(t, err.Error(), "reading line 2")
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile("does/not/exist.feature")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening does/not/exist.feature")
}

func TestLineOf(t *testing.T) {
	assert.Equal(t, 4, LineOf(&TagPlacementError{Line: 4}))
	assert.Equal(t, 9, LineOf(&IncompleteDocumentError{Line: 9, Mode: ModeBackground}))
	assert.Equal(t, 0, LineOf(errors.New("other")))
}
