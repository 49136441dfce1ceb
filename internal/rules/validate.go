package rules

import "fmt"

var validConditionTypes = map[ConditionType]struct{}{
	CondExtension: {}, CondNamePattern: {}, CondNameContains: {},
	CondNameStartsWith: {}, CondNameEndsWith: {}, CondSizeGreaterThan: {},
	CondPath: {},
}

var validOperators = map[Operator]struct{}{
	OpEquals: {}, OpContains: {}, OpMatches: {}, OpIn: {},
}

// Validate checks a rule document before it is persisted. Condition values
// are not type-checked here: a mismatched value degrades to non-match at
// evaluation time rather than being rejected up front.
func Validate(r *Rule) error {
	if r.Name == "" {
		return fmt.Errorf("rule: name is required")
	}
	if r.Trigger.Config.Folder == "" {
		return fmt.Errorf("rule %q: trigger folder is required", r.Name)
	}
	switch r.Trigger.Type {
	case "", TriggerFileAdded, TriggerFileModified:
	default:
		return fmt.Errorf("rule %q: unknown trigger type %q", r.Name, r.Trigger.Type)
	}
	if len(r.Actions) == 0 {
		return fmt.Errorf("rule %q: at least one action is required", r.Name)
	}
	for i, c := range r.Conditions {
		if _, ok := validConditionTypes[c.Type]; !ok {
			return fmt.Errorf("rule %q: conditions[%d]: unknown type %q", r.Name, i, c.Type)
		}
		if c.Operator != "" {
			if _, ok := validOperators[c.Operator]; !ok {
				return fmt.Errorf("rule %q: conditions[%d]: unknown operator %q", r.Name, i, c.Operator)
			}
		}
	}
	for i, a := range r.Actions {
		switch a.Type {
		case ActionMove, ActionCopy, ActionRename, ActionCompress:
		default:
			return fmt.Errorf("rule %q: actions[%d]: unsupported type %q", r.Name, i, a.Type)
		}
		if a.Destination == "" {
			return fmt.Errorf("rule %q: actions[%d]: destination is required", r.Name, i)
		}
		if a.Type == ActionCompress && a.Compress != nil {
			switch a.Compress.Quality {
			case "", "low", "medium", "high":
			default:
				return fmt.Errorf("rule %q: actions[%d]: invalid quality %q", r.Name, i, a.Compress.Quality)
			}
		}
	}
	return nil
}
