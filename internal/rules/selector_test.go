package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pdfRule(name string, priority int, enabled bool) Rule {
	return Rule{
		ID:       name,
		Name:     name,
		Enabled:  enabled,
		Priority: priority,
		Conditions: []Condition{
			{Type: CondExtension, Operator: OpEquals, Value: "pdf"},
		},
	}
}

func TestSelectOrdersByDescendingPriority(t *testing.T) {
	list := []Rule{
		pdfRule("low", 100, true),
		pdfRule("high", 500, true),
		pdfRule("mid", 300, true),
	}
	got := Select(list, "/tmp/doc.pdf")
	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"high", "mid", "low"}, names)
}

func TestSelectStableForEqualPriority(t *testing.T) {
	list := []Rule{
		pdfRule("first", 200, true),
		pdfRule("second", 200, true),
		pdfRule("third", 200, true),
	}
	got := Select(list, "/tmp/doc.pdf")
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)
	assert.Equal(t, "third", got[2].Name)
}

func TestSelectSkipsDisabledAndNonMatching(t *testing.T) {
	list := []Rule{
		pdfRule("disabled", 900, false),
		pdfRule("enabled", 100, true),
	}
	got := Select(list, "/tmp/doc.pdf")
	assert.Len(t, got, 1)
	assert.Equal(t, "enabled", got[0].Name)

	assert.Empty(t, Select(list, "/tmp/doc.txt"))
}

func TestSelectEmptyConditionsMatchEverything(t *testing.T) {
	list := []Rule{{ID: "all", Name: "all", Enabled: true, Priority: 1}}
	assert.Len(t, Select(list, "/tmp/whatever.xyz"), 1)
}
