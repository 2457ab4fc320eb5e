package workflow

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/local-library/internal/forms"
	"github.com/Astemirdum/local-library/internal/model"
	"github.com/Astemirdum/local-library/internal/repository"
	"github.com/Astemirdum/local-library/internal/view"
)

func NewBook(repo *repository.Repository, log *zap.Logger) *Engine[model.Book] {
	d := Descriptor[model.Book]{
		Key:      "book",
		ListPath: "/catalog/books",
		ListKey:  "book_list",
		Templates: Templates{
			List:   "book_list",
			Detail: "book_detail",
			Form:   "book_form",
			Delete: "book_delete",
		},
		Titles: Titles{
			List:   "Book List",
			Detail: "Book Detail",
			Create: "Create Book",
			Update: "Update Book",
			Delete: "Delete Book",
		},
		Schema: forms.BookSchema(),
		Decode: decodeBook,
		DetailPath: func(id string) string {
			return model.Book{ID: id}.URL()
		},
		FetchAll: repo.Book.List,
		Fetch:    repo.Book.Get,
		Insert:   repo.Book.Create,
		Update:   repo.Book.Update,
		Delete:   repo.Book.Delete,
		// The selection controls need every author and every genre.
		FormData: func(ctx context.Context) (view.Data, error) {
			var (
				authors []model.Author
				genres  []model.Genre
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				authors, err = repo.Author.List(gctx)
				return err
			})
			g.Go(func() (err error) {
				genres, err = repo.Genre.List(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			return view.Data{"authors": authors, "genres": genres}, nil
		},
		Related: func(ctx context.Context, id string) (view.Data, error) {
			instances, err := repo.BookInstance.ListByBook(ctx, id)
			return view.Data{"book_instances": instances}, err
		},
	}
	return New(d, log.Named("book"))
}

func decodeBook(id string, vals forms.Values) model.Book {
	var genres []model.Genre
	for _, gid := range vals.List("genre") {
		if gid == "" {
			continue
		}
		genres = append(genres, model.Genre{ID: gid})
	}
	return model.Book{
		ID:       id,
		Title:    vals.Get("title"),
		AuthorID: vals.Get("author"),
		Summary:  vals.Get("summary"),
		ISBN:     vals.Get("isbn"),
		Genres:   genres,
	}
}
