// Package view declares the data contract of every rendered page and
// owns the html/template renderer the HTTP layer plugs into echo.
package view

import (
	"fmt"
	"sort"
	"strings"
)

// Data is the payload handed to a template. Every page requires "title";
// Contracts lists the rest per template.
type Data map[string]any

// Contracts names the keys each template requires. The renderer enforces
// them in development mode; tests enforce them for every workflow outcome.
var Contracts = map[string][]string{
	"index": {"title", "book_count", "book_instance_count",
		"book_instance_available_count", "author_count", "genre_count"},

	"author_list":   {"title", "author_list"},
	"author_detail": {"title", "author", "author_books"},
	"author_form":   {"title"},
	"author_delete": {"title", "author", "author_books"},

	"genre_list":   {"title", "genre_list"},
	"genre_detail": {"title", "genre", "genre_books"},
	"genre_form":   {"title"},
	"genre_delete": {"title", "genre", "genre_books"},

	"book_list":   {"title", "book_list"},
	"book_detail": {"title", "book", "book_instances"},
	"book_form":   {"title", "authors", "genres"},
	"book_delete": {"title", "book"},

	"bookinstance_list":   {"title", "bookinstance_list"},
	"bookinstance_detail": {"title", "bookinstance"},
	"bookinstance_form":   {"title", "book_list", "statuses"},
	"bookinstance_delete": {"title", "bookinstance"},

	"error": {"title", "message", "status"},
}

// Check reports the contract keys the data is missing for the template.
func Check(name string, data Data) error {
	required, ok := Contracts[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}
	var missing []string
	for _, key := range required {
		if _, ok := data[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("view: template %q missing keys: %s", name, strings.Join(missing, ", "))
	}
	return nil
}
