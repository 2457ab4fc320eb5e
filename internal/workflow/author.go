package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/internal/forms"
	"github.com/Astemirdum/local-library/internal/model"
	"github.com/Astemirdum/local-library/internal/repository"
	"github.com/Astemirdum/local-library/internal/view"
)

func NewAuthor(repo *repository.Repository, log *zap.Logger) *Engine[model.Author] {
	booksBy := func(ctx context.Context, id string) ([]model.Book, error) {
		return repo.Book.ListByAuthor(ctx, id)
	}
	d := Descriptor[model.Author]{
		Key:      "author",
		ListPath: "/catalog/authors",
		ListKey:  "author_list",
		Templates: Templates{
			List:   "author_list",
			Detail: "author_detail",
			Form:   "author_form",
			Delete: "author_delete",
		},
		Titles: Titles{
			List:   "Author List",
			Detail: "Author Detail",
			Create: "Create Author",
			Update: "Update Author",
			Delete: "Delete Author",
		},
		Schema: forms.AuthorSchema(),
		Decode: decodeAuthor,
		DetailPath: func(id string) string {
			return model.Author{ID: id}.URL()
		},
		FetchAll: repo.Author.List,
		Fetch:    repo.Author.Get,
		Insert:   repo.Author.Create,
		Update:   repo.Author.Update,
		Delete:   repo.Author.Delete,
		Related: func(ctx context.Context, id string) (view.Data, error) {
			books, err := booksBy(ctx, id)
			return view.Data{"author_books": books}, err
		},
		// An author referenced by any book must not be deleted; the
		// books are shown so the librarian can resolve them first.
		Dependents: func(ctx context.Context, id string) (view.Data, int, error) {
			books, err := booksBy(ctx, id)
			return view.Data{"author_books": books}, len(books), err
		},
	}
	return New(d, log.Named("author"))
}

func decodeAuthor(id string, vals forms.Values) model.Author {
	return model.Author{
		ID:          id,
		FirstName:   vals.Get("first_name"),
		FamilyName:  vals.Get("family_name"),
		DateOfBirth: parseDate(vals.Get("date_of_birth")),
		DateOfDeath: parseDate(vals.Get("date_of_death")),
	}
}

// parseDate converts a validated ISO date form value; empty means the
// field was omitted.
func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(model.DateOnly, v)
	if err != nil {
		return nil
	}
	return &t
}
