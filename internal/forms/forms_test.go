package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func fields(errs []ErrorItem) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestAuthorSchema_Validate(t *testing.T) {
	tests := []struct {
		name       string
		raw        url.Values
		wantErrs   []string
		wantValues map[string]string
	}{
		{
			name: "ok",
			raw: url.Values{
				"first_name":    {" Patrick "},
				"family_name":   {"Rothfuss"},
				"date_of_birth": {"1973-06-06"},
			},
			wantValues: map[string]string{
				"first_name":    "Patrick",
				"family_name":   "Rothfuss",
				"date_of_birth": "1973-06-06",
				"date_of_death": "",
			},
		},
		{
			name:     "empty submission reports every required field",
			raw:      url.Values{},
			wantErrs: []string{"first_name", "family_name"},
		},
		{
			name: "whitespace only is empty after trim",
			raw: url.Values{
				"first_name":  {"   "},
				"family_name": {"Rothfuss"},
			},
			wantErrs: []string{"first_name"},
		},
		{
			name: "invalid dates named per field",
			raw: url.Values{
				"first_name":    {"Patrick"},
				"family_name":   {"Rothfuss"},
				"date_of_birth": {"not-a-date"},
				"date_of_death": {"2026-13-40"},
			},
			wantErrs: []string{"date_of_birth", "date_of_death"},
		},
		{
			name: "multiple violations collected in one pass",
			raw: url.Values{
				"first_name":    {""},
				"family_name":   {"d'Artagnan"},
				"date_of_birth": {"June 6"},
			},
			wantErrs: []string{"first_name", "family_name", "date_of_birth"},
		},
	}

	s := AuthorSchema()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			vals, errs := s.Validate(tt.raw)
			require.Equal(t, tt.wantErrs, fields(errs))
			for name, want := range tt.wantValues {
				require.Equal(t, want, vals.Get(name))
			}
		})
	}
}

func TestAuthorSchema_Validate_messages(t *testing.T) {
	s := AuthorSchema()
	_, errs := s.Validate(url.Values{"date_of_birth": {"always"}})
	require.Len(t, errs, 3)
	require.Equal(t, "First name must be specified.", errs[0].Message)
	require.Equal(t, "Family name must be specified.", errs[1].Message)
	require.Equal(t, "Invalid date of birth", errs[2].Message)
}

func TestGenreSchema_Validate(t *testing.T) {
	tests := []struct {
		name     string
		raw      url.Values
		wantName string
		wantErrs []string
	}{
		{name: "ok", raw: url.Values{"name": {"Fantasy"}}, wantName: "Fantasy"},
		{name: "trimmed", raw: url.Values{"name": {"  Fantasy  "}}, wantName: "Fantasy"},
		{name: "too short", raw: url.Values{"name": {"SF"}}, wantName: "SF", wantErrs: []string{"name"}},
		{name: "empty", raw: url.Values{}, wantErrs: []string{"name"}},
		{
			name:     "markup escaped before storage",
			raw:      url.Values{"name": {`<script>`}},
			wantName: "&lt;script&gt;",
		},
	}
	s := GenreSchema()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			vals, errs := s.Validate(tt.raw)
			require.Equal(t, tt.wantErrs, fields(errs))
			require.Equal(t, tt.wantName, vals.Get("name"))
		})
	}
}

func TestBookSchema_Validate(t *testing.T) {
	s := BookSchema()

	t.Run("all required fields reported", func(t *testing.T) {
		_, errs := s.Validate(url.Values{})
		require.Equal(t, []string{"title", "author", "summary", "isbn"}, fields(errs))
	})

	t.Run("multi-valued genre keeps every value", func(t *testing.T) {
		vals, errs := s.Validate(url.Values{
			"title":   {"The Name of the Wind"},
			"author":  {"0f81b82b-33ab-4b27-bd09-63af3c5442d6"},
			"summary": {"A tale."},
			"isbn":    {"9780756404741"},
			"genre":   {" g1 ", "g2"},
		})
		require.Empty(t, errs)
		require.Equal(t, []string{"g1", "g2"}, vals.List("genre"))
	})
}

func TestBookInstanceSchema_Validate(t *testing.T) {
	tests := []struct {
		name     string
		raw      url.Values
		wantErrs []string
	}{
		{
			name: "ok",
			raw: url.Values{
				"book":     {"id-1"},
				"imprint":  {"Gollancz, 2011"},
				"status":   {"Loaned"},
				"due_back": {"2026-09-15"},
			},
		},
		{
			name: "unknown status rejected",
			raw: url.Values{
				"book":    {"id-1"},
				"imprint": {"Gollancz, 2011"},
				"status":  {"Lost"},
			},
			wantErrs: []string{"status"},
		},
		{
			name:     "missing book, imprint and status",
			raw:      url.Values{"due_back": {"2026-09-15"}},
			wantErrs: []string{"book", "imprint", "status"},
		},
	}
	s := BookInstanceSchema()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, errs := s.Validate(tt.raw)
			require.Equal(t, tt.wantErrs, fields(errs))
		})
	}
}

func TestDescribe(t *testing.T) {
	for _, entity := range []string{EntityAuthor, EntityGenre, EntityBook, EntityBookInstance} {
		s, ok := Describe(entity)
		require.True(t, ok)
		require.Equal(t, entity, s.Entity)
		require.NotEmpty(t, s.Fields)
	}
	_, ok := Describe("loan")
	require.False(t, ok)
}
