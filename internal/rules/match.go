package rules

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Matches reports whether every condition matches the file at filePath.
// An empty condition list matches unconditionally. Evaluation never returns
// an error: malformed regexes and unreadable files degrade to non-match,
// since conditions are user rule data rather than programmer input.
func Matches(conditions []Condition, filePath string) bool {
	for _, c := range conditions {
		if !matchOne(c, filePath) {
			return false
		}
	}
	return true
}

func matchOne(c Condition, filePath string) bool {
	name := filepath.Base(filePath)

	switch c.Type {
	case CondExtension:
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		return applyOperator(c, ext)
	case CondNamePattern:
		return applyOperator(c, name)
	case CondNameContains:
		return strings.Contains(stemLower(name), strings.ToLower(c.stringValue()))
	case CondNameStartsWith:
		return strings.HasPrefix(stemLower(name), strings.ToLower(c.stringValue()))
	case CondNameEndsWith:
		return strings.HasSuffix(stemLower(name), strings.ToLower(c.stringValue()))
	case CondSizeGreaterThan:
		threshold, ok := c.floatValue()
		if !ok {
			return false
		}
		info, err := os.Stat(filePath)
		if err != nil {
			// File may have been deleted mid-event.
			return false
		}
		return float64(info.Size()) > threshold*1024*1024
	case CondPath:
		return applyOperator(c, filePath)
	}
	return false
}

// applyOperator evaluates the condition's operator against a derived file
// attribute. All comparisons are case-insensitive.
func applyOperator(c Condition, subject string) bool {
	switch c.Operator {
	case OpEquals, "":
		return strings.EqualFold(subject, c.stringValue())
	case OpContains:
		return strings.Contains(strings.ToLower(subject), strings.ToLower(c.stringValue()))
	case OpMatches:
		re, err := regexp.Compile("(?i)" + c.stringValue())
		if err != nil {
			return false
		}
		return re.MatchString(subject)
	case OpIn:
		list := c.listValue()
		if list == nil {
			return false
		}
		for _, v := range list {
			if strings.EqualFold(subject, v) {
				return true
			}
		}
		return false
	}
	return false
}

func stemLower(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}
