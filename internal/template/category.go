package template

import "strings"

// Keyword families checked in priority order: the invoice family wins over
// banking, banking over study. First matching keyword decides.
var categoryFamilies = []struct {
	category string
	keywords []string
}{
	{"Invoices", []string{"invoice", "receipt", "bill", "payment", "rechnung"}},
	{"Finance", []string{"bank", "statement", "finance", "tax", "salary"}},
	{"Study", []string{"study", "lecture", "course", "notes", "assignment", "university"}},
}

// Category derives a PDF content category from the file name's keywords.
// Unmatched names fall into "Unsorted".
func Category(fileName string) string {
	name := strings.ToLower(fileName)
	for _, fam := range categoryFamilies {
		for _, kw := range fam.keywords {
			if strings.Contains(name, kw) {
				return fam.category
			}
		}
	}
	return "Unsorted"
}
