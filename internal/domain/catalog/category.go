package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryInfo describes a category for listing
type CategoryInfo struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

var titleCaser = cases.Title(language.English)

// CategoryTitle derives a display title from a category slug:
// "smart-doorbells" becomes "Smart Doorbells".
func CategoryTitle(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	return titleCaser.String(strings.Join(words, " "))
}

// CategoryInfos lists every category with its title and product count
func (c *Catalog) CategoryInfos() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(c.order))
	for _, slug := range c.order {
		out = append(out, CategoryInfo{
			Slug:  slug,
			Title: CategoryTitle(slug),
			Count: len(c.products[slug]),
		})
	}
	return out
}
