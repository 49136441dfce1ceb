package rules

import "sort"

// Select returns the enabled rules whose conditions all match filePath,
// ordered by descending priority. The sort is stable so equal priorities
// keep their original list order. Callers pre-filter to the rules watching
// the relevant folder; the dispatcher executes only the first result.
func Select(list []Rule, filePath string) []Rule {
	var matched []Rule
	for _, r := range list {
		if !r.Enabled {
			continue
		}
		if Matches(r.Conditions, filePath) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})
	return matched
}
