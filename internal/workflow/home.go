package workflow

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/local-library/internal/model"
	"github.com/Astemirdum/local-library/internal/repository"
	"github.com/Astemirdum/local-library/internal/view"
)

// Home renders the catalog landing page with record counts per entity.
type Home struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewHome(repo *repository.Repository, log *zap.Logger) *Home {
	return &Home{repo: repo, log: log.Named("home")}
}

func (h *Home) Index(ctx context.Context) Outcome {
	var bookCount, instanceCount, availableCount, authorCount, genreCount int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bookCount, err = h.repo.Book.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		instanceCount, err = h.repo.BookInstance.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		availableCount, err = h.repo.BookInstance.CountByStatus(gctx, model.StatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		authorCount, err = h.repo.Author.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		genreCount, err = h.repo.Genre.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.log.Error("index counts", zap.Error(err))
		return Failed(err)
	}

	return Rendered("index", view.Data{
		"title":                         "Local Library Home",
		"book_count":                    bookCount,
		"book_instance_count":           instanceCount,
		"book_instance_available_count": availableCount,
		"author_count":                  authorCount,
		"genre_count":                   genreCount,
	})
}
