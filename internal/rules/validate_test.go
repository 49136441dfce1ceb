package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRule() Rule {
	return Rule{
		Name:    "move pdfs",
		Trigger: Trigger{Type: TriggerFileAdded, Config: TriggerConfig{Folder: "{downloads}"}},
		Actions: []Action{{Type: ActionMove, Destination: "{documents}/Archive"}},
	}
}

func TestValidateOK(t *testing.T) {
	r := validRule()
	require.NoError(t, Validate(&r))
}

func TestValidateRequiredFields(t *testing.T) {
	r := validRule()
	r.Name = ""
	assert.Error(t, Validate(&r))

	r = validRule()
	r.Trigger.Config.Folder = ""
	assert.Error(t, Validate(&r))

	r = validRule()
	r.Actions = nil
	assert.Error(t, Validate(&r))

	r = validRule()
	r.Actions[0].Destination = ""
	assert.Error(t, Validate(&r))
}

func TestValidateRejectsUnknownTypes(t *testing.T) {
	r := validRule()
	r.Conditions = []Condition{{Type: "age", Value: "1"}}
	assert.Error(t, Validate(&r))

	r = validRule()
	r.Conditions = []Condition{{Type: CondExtension, Operator: "like", Value: "pdf"}}
	assert.Error(t, Validate(&r))

	r = validRule()
	r.Actions[0].Type = "delete"
	assert.Error(t, Validate(&r))

	r = validRule()
	r.Trigger.Type = "file_renamed"
	assert.Error(t, Validate(&r))
}

func TestValidateCompressQuality(t *testing.T) {
	r := validRule()
	r.Actions[0].Type = ActionCompress
	r.Actions[0].Compress = &CompressConfig{Quality: "medium"}
	require.NoError(t, Validate(&r))

	r.Actions[0].Compress.Quality = "maximum"
	assert.Error(t, Validate(&r))
}
