package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/local-library/internal/model"
)

func TestCheck(t *testing.T) {
	t.Run("complete data passes", func(t *testing.T) {
		err := Check("author_detail", Data{
			"title":        "Author Detail",
			"author":       model.Author{},
			"author_books": []model.Book{},
		})
		require.NoError(t, err)
	})

	t.Run("missing keys are all reported", func(t *testing.T) {
		err := Check("author_detail", Data{"title": "Author Detail"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "author")
		require.Contains(t, err.Error(), "author_books")
	})

	t.Run("unknown template rejected", func(t *testing.T) {
		require.Error(t, Check("loan_form", Data{"title": "x"}))
	})
}

// sampleData builds a payload satisfying every declared contract, with
// populated references so field lookups inside the templates resolve.
func sampleData() Data {
	birth := time.Date(1973, 6, 6, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	author := model.Author{ID: "a1", FirstName: "Patrick", FamilyName: "Rothfuss", DateOfBirth: &birth}
	genre := model.Genre{ID: "g1", Name: "Fantasy"}
	book := model.Book{
		ID: "b1", Title: "The Name of the Wind", Summary: "A tale.",
		ISBN: "9780756404741", AuthorID: author.ID,
		Author: &author, Genres: []model.Genre{genre},
	}
	instance := model.BookInstance{
		ID: "i1", BookID: book.ID, Imprint: "Gollancz, 2011",
		Status: model.StatusLoaned, DueBack: &due, Book: &book,
	}
	return Data{
		"title": "Page",

		"book_count":                    1,
		"book_instance_count":           1,
		"book_instance_available_count": 0,
		"author_count":                  1,
		"genre_count":                   1,

		"author":       author,
		"author_list":  []model.Author{author},
		"author_books": []model.Book{book},
		"authors":      []model.Author{author},

		"genre":       genre,
		"genre_list":  []model.Genre{genre},
		"genre_books": []model.Book{book},
		"genres":      []model.Genre{genre},

		"book":      book,
		"book_list": []model.Book{book},

		"bookinstance":      instance,
		"bookinstance_list": []model.BookInstance{instance},
		"book_instances":    []model.BookInstance{instance},
		"statuses":          model.Statuses(),

		"message": "message",
		"status":  500,
	}
}

func TestRenderer_AllContractedTemplates(t *testing.T) {
	r, err := NewRenderer(true)
	require.NoError(t, err)

	data := sampleData()
	for name := range Contracts {
		name := name
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, name, data, nil))
			require.Contains(t, buf.String(), "<!DOCTYPE html>")
		})
	}
}

func TestRenderer_StrictRejectsIncompleteData(t *testing.T) {
	r, err := NewRenderer(true)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "genre_detail", Data{"title": "Genre Detail"}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "genre_books")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer(false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.Error(t, r.Render(&buf, "loan_form", Data{}, nil))
}
