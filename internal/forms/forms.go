// Package forms implements the per-field validation and sanitization
// pipeline shared by every catalog form. Each field declares an ordered
// rule chain; running a schema against raw form input yields the
// normalized values plus every violated constraint, so a single
// submission reports all of its problems at once.
package forms

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrorItem is one violated field constraint.
type ErrorItem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule transforms a field value or reports why it is invalid. Rules run
// in declaration order; a failing rule still returns the value the rest
// of the chain should continue with.
type Rule func(value string) (string, error)

// Trim strips surrounding whitespace.
func Trim() Rule {
	return func(v string) (string, error) {
		return strings.TrimSpace(v), nil
	}
}

// Required rejects empty values.
func Required(msg string) Rule {
	return tagRule("required", msg)
}

// MinLength rejects values shorter than n runes.
func MinLength(n int, msg string) Rule {
	return tagRule(fmt.Sprintf("min=%d", n), msg)
}

// Escape replaces HTML-significant characters with entities. Values are
// escaped before storage so later template output cannot smuggle markup.
func Escape() Rule {
	return func(v string) (string, error) {
		return html.EscapeString(v), nil
	}
}

// Alphanumeric rejects values containing anything outside letters and digits.
// Empty values pass; Required owns that check.
func Alphanumeric(msg string) Rule {
	return optionalTagRule("alphanum", msg)
}

// Date accepts an empty value (field omitted) or an ISO-8601 calendar date.
func Date(msg string) Rule {
	return optionalTagRule("datetime=2006-01-02", msg)
}

// OneOf rejects values outside the allowed set.
func OneOf(allowed []string, msg string) Rule {
	return func(v string) (string, error) {
		for _, a := range allowed {
			if v == a {
				return v, nil
			}
		}
		return v, fmt.Errorf("%s", msg)
	}
}

func tagRule(tag, msg string) Rule {
	return func(v string) (string, error) {
		if err := validate.Var(v, tag); err != nil {
			return v, fmt.Errorf("%s", msg)
		}
		return v, nil
	}
}

func optionalTagRule(tag, msg string) Rule {
	return func(v string) (string, error) {
		if v == "" {
			return v, nil
		}
		if err := validate.Var(v, tag); err != nil {
			return v, fmt.Errorf("%s", msg)
		}
		return v, nil
	}
}

// Kind drives the form control a field renders as.
type Kind string

const (
	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindDate        Kind = "date"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
)

// Field is one declared form field with its rule chain.
type Field struct {
	Name  string
	Label string
	Kind  Kind
	Rules []Rule
}

// Schema is the ordered field list for one entity type.
type Schema struct {
	Entity string
	Fields []Field
}

// Values holds normalized form values keyed by field name. Multi-valued
// fields (checkbox groups) keep every submitted value.
type Values map[string][]string

// Get returns the first normalized value for the field, or "".
func (v Values) Get(name string) string {
	if vs := v[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// List returns every normalized value for the field.
func (v Values) List(name string) []string {
	return v[name]
}

// Validate runs every field's rule chain over the raw submission and
// collects all violations. Processing never short-circuits: the caller
// renders the complete error list after one pass.
func (s Schema) Validate(raw url.Values) (Values, []ErrorItem) {
	normalized := make(Values, len(s.Fields))
	var errs []ErrorItem
	for _, f := range s.Fields {
		vs := raw[f.Name]
		if len(vs) == 0 {
			vs = []string{""}
		}
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			for _, rule := range f.Rules {
				next, err := rule(v)
				if err != nil {
					errs = append(errs, ErrorItem{Field: f.Name, Message: err.Error()})
				}
				v = next
			}
			out = append(out, v)
		}
		normalized[f.Name] = out
	}
	return normalized, errs
}
