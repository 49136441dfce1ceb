package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesEmptyConditions(t *testing.T) {
	assert.True(t, Matches(nil, "/tmp/anything.bin"))
	assert.True(t, Matches([]Condition{}, "/tmp/anything.bin"))
}

func TestExtensionCondition(t *testing.T) {
	cond := Condition{Type: CondExtension, Operator: OpEquals, Value: "pdf"}
	assert.True(t, Matches([]Condition{cond}, "/tmp/report.pdf"))
	assert.True(t, Matches([]Condition{cond}, "/tmp/report.PDF"))
	assert.False(t, Matches([]Condition{cond}, "/tmp/report.txt"))
	assert.False(t, Matches([]Condition{cond}, "/tmp/noext"))
}

func TestExtensionInList(t *testing.T) {
	cond := Condition{Type: CondExtension, Operator: OpIn, Value: []any{"png", "jpg", "JPEG"}}
	assert.True(t, Matches([]Condition{cond}, "/tmp/shot.PNG"))
	assert.True(t, Matches([]Condition{cond}, "/tmp/photo.jpeg"))
	assert.False(t, Matches([]Condition{cond}, "/tmp/doc.pdf"))
}

func TestInOperatorNonListValue(t *testing.T) {
	cond := Condition{Type: CondExtension, Operator: OpIn, Value: "png"}
	assert.False(t, Matches([]Condition{cond}, "/tmp/shot.png"))
}

func TestNameConditionsOperateOnStem(t *testing.T) {
	// Stem comparisons strip the extension and lower-case both sides.
	assert.True(t, Matches([]Condition{
		{Type: CondNameContains, Value: "INVOICE"},
	}, "/tmp/Acme_Invoice_March.pdf"))

	assert.True(t, Matches([]Condition{
		{Type: CondNameStartsWith, Value: "screenshot"},
	}, "/tmp/Screenshot 2026-02-01.png"))

	assert.True(t, Matches([]Condition{
		{Type: CondNameEndsWith, Value: "_final"},
	}, "/tmp/thesis_FINAL.pdf"))

	// ".pdf" is not part of the stem.
	assert.False(t, Matches([]Condition{
		{Type: CondNameEndsWith, Value: ".pdf"},
	}, "/tmp/thesis.pdf"))
}

func TestNamePatternUsesFullName(t *testing.T) {
	cond := Condition{Type: CondNamePattern, Operator: OpMatches, Value: `^report_\d{4}\.pdf$`}
	assert.True(t, Matches([]Condition{cond}, "/tmp/report_2026.pdf"))
	assert.True(t, Matches([]Condition{cond}, "/tmp/REPORT_2026.PDF"))
	assert.False(t, Matches([]Condition{cond}, "/tmp/report.pdf"))
}

func TestInvalidRegexIsNonMatch(t *testing.T) {
	cond := Condition{Type: CondNamePattern, Operator: OpMatches, Value: "(["}
	assert.False(t, Matches([]Condition{cond}, "/tmp/report.pdf"))
}

func TestPathCondition(t *testing.T) {
	cond := Condition{Type: CondPath, Operator: OpContains, Value: "downloads"}
	assert.True(t, Matches([]Condition{cond}, "/home/u/Downloads/a.pdf"))
	assert.False(t, Matches([]Condition{cond}, "/home/u/Documents/a.pdf"))
}

func TestSizeCondition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 2*1024*1024), 0o644))

	assert.True(t, Matches([]Condition{
		{Type: CondSizeGreaterThan, Value: float64(1)},
	}, path))
	assert.False(t, Matches([]Condition{
		{Type: CondSizeGreaterThan, Value: float64(3)},
	}, path))
}

func TestSizeConditionStatFailure(t *testing.T) {
	cond := Condition{Type: CondSizeGreaterThan, Value: float64(0)}
	assert.False(t, Matches([]Condition{cond}, "/nonexistent/gone.bin"))
}

func TestConditionsAreANDed(t *testing.T) {
	conds := []Condition{
		{Type: CondExtension, Operator: OpEquals, Value: "pdf"},
		{Type: CondNameContains, Value: "invoice"},
	}
	assert.True(t, Matches(conds, "/tmp/invoice_march.pdf"))
	assert.False(t, Matches(conds, "/tmp/invoice_march.txt"))
	assert.False(t, Matches(conds, "/tmp/statement.pdf"))
}
