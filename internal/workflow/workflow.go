// Package workflow implements the entity CRUD workflow engine: one
// generic list/detail/create/update/delete state machine, instantiated
// per entity type through a Descriptor. Every operation returns a tagged
// Outcome; the HTTP layer owns translating outcomes into responses, so
// the engine stays independent of the transport and testable against a
// substitute store.
package workflow

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/local-library/internal/errs"
	"github.com/Astemirdum/local-library/internal/forms"
	"github.com/Astemirdum/local-library/internal/view"
)

type Kind int

const (
	KindRendered Kind = iota
	KindRedirected
	KindNotFound
	KindFailed
)

// Outcome is the tagged result of one workflow operation.
type Outcome struct {
	Kind     Kind
	Template string
	Data     view.Data
	Location string
	Err      error
}

func Rendered(template string, data view.Data) Outcome {
	return Outcome{Kind: KindRendered, Template: template, Data: data}
}

func Redirected(path string) Outcome {
	return Outcome{Kind: KindRedirected, Location: path}
}

func NotFound() Outcome {
	return Outcome{Kind: KindNotFound}
}

func Failed(err error) Outcome {
	return Outcome{Kind: KindFailed, Err: err}
}

// Templates names the four pages an entity renders.
type Templates struct {
	List, Detail, Form, Delete string
}

// Titles are the page titles the view contract requires.
type Titles struct {
	List, Detail, Create, Update, Delete string
}

// Descriptor parameterizes the engine for one entity type. Store access
// goes through the closures only; optional closures (FindExisting,
// Dependents, FormData, Related) are nil for entities without that
// concern.
type Descriptor[T any] struct {
	// Key is the view-data key the entity is rendered under.
	Key       string
	ListPath  string
	ListKey   string
	Templates Templates
	Titles    Titles
	Schema    forms.Schema

	// Decode builds the entity from normalized form values. The id is
	// empty on create and the existing identifier on update; no new
	// identifier is ever minted here.
	Decode func(id string, vals forms.Values) T

	DetailPath func(id string) string

	FetchAll func(ctx context.Context) ([]T, error)
	Fetch    func(ctx context.Context, id string) (T, error)
	Insert   func(ctx context.Context, e T) (string, error)
	Update   func(ctx context.Context, id string, e T) error
	Delete   func(ctx context.Context, id string) error

	// FindExisting probes the natural-key uniqueness rule before insert;
	// it returns the existing record's id, or errs.ErrNotFound.
	FindExisting func(ctx context.Context, e T) (string, error)

	// Dependents fetches the records that block deletion, as view data
	// plus a blocking count. Always queried fresh at submission time.
	Dependents func(ctx context.Context, id string) (view.Data, int, error)

	// FormData fetches the reference lists a form needs (authors,
	// genres, books) to populate its selection controls.
	FormData func(ctx context.Context) (view.Data, error)

	// Related fetches the one-hop related records a detail page shows.
	Related func(ctx context.Context, id string) (view.Data, error)
}

// Engine runs the workflow for one entity type.
type Engine[T any] struct {
	d   Descriptor[T]
	log *zap.Logger
}

func New[T any](d Descriptor[T], log *zap.Logger) *Engine[T] {
	return &Engine[T]{d: d, log: log}
}

func (e *Engine[T]) List(ctx context.Context) Outcome {
	items, err := e.d.FetchAll(ctx)
	if err != nil {
		return e.failed("list", err)
	}
	return Rendered(e.d.Templates.List, view.Data{
		"title":     e.d.Titles.List,
		e.d.ListKey: items,
	})
}

func (e *Engine[T]) Detail(ctx context.Context, id string) Outcome {
	var (
		entity  T
		related view.Data
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entity, err = e.d.Fetch(gctx, id)
		return err
	})
	if e.d.Related != nil {
		g.Go(func() (err error) {
			related, err = e.d.Related(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return NotFound()
		}
		return e.failed("detail", err)
	}
	data := view.Data{
		"title": e.d.Titles.Detail,
		e.d.Key: entity,
	}
	merge(data, related)
	return Rendered(e.d.Templates.Detail, data)
}

func (e *Engine[T]) CreateForm(ctx context.Context) Outcome {
	data := view.Data{"title": e.d.Titles.Create}
	if out, ok := e.withFormData(ctx, data); !ok {
		return out
	}
	return Rendered(e.d.Templates.Form, data)
}

func (e *Engine[T]) Create(ctx context.Context, raw url.Values) Outcome {
	vals, fieldErrs := e.d.Schema.Validate(raw)
	entity := e.d.Decode("", vals)

	if len(fieldErrs) > 0 {
		return e.formWithErrors(ctx, e.d.Titles.Create, entity, fieldErrs)
	}

	if e.d.FindExisting != nil {
		id, err := e.d.FindExisting(ctx, entity)
		switch {
		case err == nil:
			// Same natural key already stored: treat as success and
			// point at the existing record instead of duplicating it.
			return Redirected(e.d.DetailPath(id))
		case !errors.Is(err, errs.ErrNotFound):
			return e.failed("find existing", err)
		}
	}

	id, err := e.d.Insert(ctx, entity)
	if err != nil {
		return e.failed("insert", err)
	}
	return Redirected(e.d.DetailPath(id))
}

func (e *Engine[T]) UpdateForm(ctx context.Context, id string) Outcome {
	entity, err := e.d.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return NotFound()
		}
		return e.failed("update form", err)
	}
	data := view.Data{
		"title": e.d.Titles.Update,
		e.d.Key: entity,
	}
	if out, ok := e.withFormData(ctx, data); !ok {
		return out
	}
	return Rendered(e.d.Templates.Form, data)
}

func (e *Engine[T]) Update(ctx context.Context, id string, raw url.Values) Outcome {
	vals, fieldErrs := e.d.Schema.Validate(raw)
	entity := e.d.Decode(id, vals)

	if len(fieldErrs) > 0 {
		return e.formWithErrors(ctx, e.d.Titles.Update, entity, fieldErrs)
	}

	if err := e.d.Update(ctx, id, entity); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return NotFound()
		}
		return e.failed("update", err)
	}
	return Redirected(e.d.DetailPath(id))
}

func (e *Engine[T]) ConfirmDelete(ctx context.Context, id string) Outcome {
	out, _ := e.deleteView(ctx, id)
	return out
}

func (e *Engine[T]) ConfirmedDelete(ctx context.Context, id string) Outcome {
	// Dependents are re-fetched here, never reused from the GET-time
	// snapshot: a book created between page load and submission must
	// still block the delete.
	out, blocked := e.deleteView(ctx, id)
	if out.Kind != KindRendered || blocked {
		return out
	}
	if err := e.d.Delete(ctx, id); err != nil {
		return e.failed("delete", err)
	}
	return Redirected(e.d.ListPath)
}

// deleteView fetches the record and its dependents concurrently and
// builds the confirmation page. A missing record redirects to the list
// rather than erroring. blocked reports whether integrity rules forbid
// the delete.
func (e *Engine[T]) deleteView(ctx context.Context, id string) (out Outcome, blocked bool) {
	var (
		entity   T
		deps     view.Data
		blocking int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entity, err = e.d.Fetch(gctx, id)
		return err
	})
	if e.d.Dependents != nil {
		g.Go(func() (err error) {
			deps, blocking, err = e.d.Dependents(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Redirected(e.d.ListPath), false
		}
		return e.failed("delete view", err), false
	}
	data := view.Data{
		"title": e.d.Titles.Delete,
		e.d.Key: entity,
	}
	merge(data, deps)
	return Rendered(e.d.Templates.Delete, data), blocking > 0
}

// formWithErrors re-renders the form with the normalized submission and
// the full error list, never discarding user input.
func (e *Engine[T]) formWithErrors(ctx context.Context, title string, entity T, fieldErrs []forms.ErrorItem) Outcome {
	data := view.Data{
		"title":  title,
		e.d.Key:  entity,
		"errors": fieldErrs,
	}
	if out, ok := e.withFormData(ctx, data); !ok {
		return out
	}
	return Rendered(e.d.Templates.Form, data)
}

func (e *Engine[T]) withFormData(ctx context.Context, data view.Data) (Outcome, bool) {
	if e.d.FormData == nil {
		return Outcome{}, true
	}
	fd, err := e.d.FormData(ctx)
	if err != nil {
		return e.failed("form data", err), false
	}
	merge(data, fd)
	return Outcome{}, true
}

func (e *Engine[T]) failed(op string, err error) Outcome {
	e.log.Error(op, zap.Error(err))
	return Failed(errors.Wrap(err, op))
}

func merge(dst, src view.Data) {
	for k, v := range src {
		dst[k] = v
	}
}
