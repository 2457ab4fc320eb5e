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

func NewBookInstance(repo *repository.Repository, log *zap.Logger) *Engine[model.BookInstance] {
	d := Descriptor[model.BookInstance]{
		Key:      "bookinstance",
		ListPath: "/catalog/bookinstances",
		ListKey:  "bookinstance_list",
		Templates: Templates{
			List:   "bookinstance_list",
			Detail: "bookinstance_detail",
			Form:   "bookinstance_form",
			Delete: "bookinstance_delete",
		},
		Titles: Titles{
			List:   "Book Instance List",
			Detail: "Book:",
			Create: "Create BookInstance",
			Update: "Update BookInstance",
			Delete: "Delete BookInstance",
		},
		Schema: forms.BookInstanceSchema(),
		Decode: decodeBookInstance,
		DetailPath: func(id string) string {
			return model.BookInstance{ID: id}.URL()
		},
		FetchAll: repo.BookInstance.List,
		Fetch:    repo.BookInstance.Get,
		Insert:   repo.BookInstance.Create,
		Update:   repo.BookInstance.Update,
		Delete:   repo.BookInstance.Delete,
		FormData: func(ctx context.Context) (view.Data, error) {
			books, err := repo.Book.List(ctx)
			if err != nil {
				return nil, err
			}
			return view.Data{"book_list": books, "statuses": model.Statuses()}, nil
		},
	}
	return New(d, log.Named("bookinstance"))
}

func decodeBookInstance(id string, vals forms.Values) model.BookInstance {
	due := parseDate(vals.Get("due_back"))
	if due == nil {
		// Schema default: a copy with no declared availability date is
		// due back now.
		now := time.Now()
		due = &now
	}
	return model.BookInstance{
		ID:      id,
		BookID:  vals.Get("book"),
		Imprint: vals.Get("imprint"),
		Status:  model.Status(vals.Get("status")),
		DueBack: due,
	}
}
