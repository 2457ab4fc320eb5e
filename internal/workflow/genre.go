package workflow

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/internal/forms"
	"github.com/Astemirdum/local-library/internal/model"
	"github.com/Astemirdum/local-library/internal/repository"
	"github.com/Astemirdum/local-library/internal/view"
)

func NewGenre(repo *repository.Repository, log *zap.Logger) *Engine[model.Genre] {
	d := Descriptor[model.Genre]{
		Key:      "genre",
		ListPath: "/catalog/genres",
		ListKey:  "genre_list",
		Templates: Templates{
			List:   "genre_list",
			Detail: "genre_detail",
			Form:   "genre_form",
			Delete: "genre_delete",
		},
		Titles: Titles{
			List:   "Genre List",
			Detail: "Genre Detail",
			Create: "Create Genre",
			Update: "Update Genre",
			Delete: "Delete Genre",
		},
		Schema: forms.GenreSchema(),
		Decode: func(id string, vals forms.Values) model.Genre {
			return model.Genre{ID: id, Name: vals.Get("name")}
		},
		DetailPath: func(id string) string {
			return model.Genre{ID: id}.URL()
		},
		FetchAll: repo.Genre.List,
		Fetch:    repo.Genre.Get,
		// A create racing another insert of the same name resolves to
		// the record that won, keeping the natural key unique.
		Insert: func(ctx context.Context, g model.Genre) (string, error) {
			id, err := repo.Genre.Create(ctx, g)
			if errors.Is(err, repository.ErrDuplicateGenre) {
				if existing, ferr := repo.Genre.FindByName(ctx, g.Name); ferr == nil {
					return existing.ID, nil
				}
			}
			return id, err
		},
		Update: repo.Genre.Update,
		Delete: repo.Genre.Delete,
		FindExisting: func(ctx context.Context, g model.Genre) (string, error) {
			existing, err := repo.Genre.FindByName(ctx, g.Name)
			if err != nil {
				return "", err
			}
			return existing.ID, nil
		},
		Related: func(ctx context.Context, id string) (view.Data, error) {
			books, err := repo.Book.ListByGenre(ctx, id)
			return view.Data{"genre_books": books}, err
		},
		Dependents: func(ctx context.Context, id string) (view.Data, int, error) {
			books, err := repo.Book.ListByGenre(ctx, id)
			return view.Data{"genre_books": books}, len(books), err
		},
	}
	return New(d, log.Named("genre"))
}
