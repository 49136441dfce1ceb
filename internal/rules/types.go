package rules

import (
	"encoding/json"
	"time"
)

type ConditionType string

const (
	CondExtension       ConditionType = "extension"
	CondNamePattern     ConditionType = "name_pattern"
	CondNameContains    ConditionType = "name_contains"
	CondNameStartsWith  ConditionType = "name_starts_with"
	CondNameEndsWith    ConditionType = "name_ends_with"
	CondSizeGreaterThan ConditionType = "size_greater_than_mb"
	CondPath            ConditionType = "path"
)

type Operator string

const (
	OpEquals   Operator = "equals"
	OpContains Operator = "contains"
	OpMatches  Operator = "matches"
	OpIn       Operator = "in"
)

// Condition is a single predicate over a file attribute. Value holds a
// string, a number, or a list of strings depending on Type/Operator.
type Condition struct {
	Type     ConditionType `json:"type"`
	Operator Operator      `json:"operator,omitempty"`
	Value    any           `json:"value"`
}

type ActionType string

const (
	ActionMove     ActionType = "move"
	ActionCopy     ActionType = "copy"
	ActionRename   ActionType = "rename"
	ActionCompress ActionType = "compress"
)

type CompressConfig struct {
	Quality         string `json:"quality"` // low|medium|high
	ArchiveOriginal bool   `json:"archiveOriginal,omitempty"`
}

// Action is one step of a rule's chain. Destination may contain template
// placeholders and may denote a directory or an exact file path.
type Action struct {
	Type        ActionType      `json:"type"`
	Destination string          `json:"destination"`
	Pattern     string          `json:"pattern,omitempty"`
	CreateDirs  *bool           `json:"createDirs,omitempty"`
	Compress    *CompressConfig `json:"compress,omitempty"`
}

// ShouldCreateDirs reports whether the destination directory tree should be
// created; true unless createDirs is explicitly false.
func (a Action) ShouldCreateDirs() bool {
	return a.CreateDirs == nil || *a.CreateDirs
}

type TriggerType string

const (
	TriggerFileAdded    TriggerType = "file_added"
	TriggerFileModified TriggerType = "file_modified"
)

type TriggerConfig struct {
	Folder string `json:"folder"` // template, e.g. "{downloads}"
}

type Trigger struct {
	Type   TriggerType   `json:"type"`
	Config TriggerConfig `json:"config"`
}

// Rule is a named, prioritized WHEN→DO mapping. Conditions are ANDed;
// actions run in order, each operating on the previous action's output path.
// Rules are immutable once loaded; only the store mutates them.
type Rule struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Enabled    bool        `json:"enabled"`
	Priority   int         `json:"priority"`
	Tags       []string    `json:"tags,omitempty"`
	Trigger    Trigger     `json:"trigger"`
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// stringValue coerces the condition value to a string for the string-flavored
// condition types. Numbers are not coerced; a non-string yields "".
func (c Condition) stringValue() string {
	if s, ok := c.Value.(string); ok {
		return s
	}
	return ""
}

// listValue returns the condition value as a string list, or nil when the
// value is not a list. JSON decoding yields []any, so both shapes are handled.
func (c Condition) listValue() []string {
	switch v := c.Value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// floatValue returns the condition value as a float64 for size thresholds.
// JSON numbers decode as float64; json.Number and strings are tolerated.
func (c Condition) floatValue() (float64, bool) {
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
