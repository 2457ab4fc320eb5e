package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/internal/errs"
	"github.com/Astemirdum/local-library/internal/model"
)

type bookInstanceRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

const bookInstanceColumns = "id, book_id, imprint, status, due_back"

func (r *bookInstanceRepository) List(ctx context.Context) ([]model.BookInstance, error) {
	return r.list(ctx, nil)
}

func (r *bookInstanceRepository) ListByBook(ctx context.Context, bookID string) ([]model.BookInstance, error) {
	if err := checkID(bookID); err != nil {
		return nil, nil
	}
	return r.list(ctx, sq.Eq{"book_id": bookID})
}

func (r *bookInstanceRepository) list(ctx context.Context, pred any) ([]model.BookInstance, error) {
	q := qb.Select(bookInstanceColumns).From(bookInstanceTableName)
	if pred != nil {
		q = q.Where(pred)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var instances []model.BookInstance
	if err := r.db.SelectContext(ctx, &instances, query, args...); err != nil {
		return nil, err
	}
	if err := r.populateBooks(ctx, instances); err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *bookInstanceRepository) Get(ctx context.Context, id string) (model.BookInstance, error) {
	if err := checkID(id); err != nil {
		return model.BookInstance{}, err
	}
	query, args, err := qb.Select(bookInstanceColumns).
		From(bookInstanceTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.BookInstance{}, err
	}
	var bi model.BookInstance
	if err := r.db.GetContext(ctx, &bi, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookInstance{}, errs.ErrNotFound
		}
		return model.BookInstance{}, err
	}
	instances := []model.BookInstance{bi}
	if err := r.populateBooks(ctx, instances); err != nil {
		return model.BookInstance{}, err
	}
	return instances[0], nil
}

func (r *bookInstanceRepository) Create(ctx context.Context, bi model.BookInstance) (string, error) {
	id := uuid.New().String()
	query, args, err := qb.Insert(bookInstanceTableName).
		Columns("id", "book_id", "imprint", "status", "due_back").
		Values(id, bi.BookID, bi.Imprint, bi.Status, bi.DueBack).
		ToSql()
	if err != nil {
		return "", err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("bookinstance create", zap.String("q", query), zap.Error(err))
		return "", err
	}
	return id, nil
}

func (r *bookInstanceRepository) Update(ctx context.Context, id string, bi model.BookInstance) error {
	if err := checkID(id); err != nil {
		return err
	}
	query, args, err := qb.Update(bookInstanceTableName).
		Set("book_id", bi.BookID).
		Set("imprint", bi.Imprint).
		Set("status", bi.Status).
		Set("due_back", bi.DueBack).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *bookInstanceRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	query, args, err := qb.Delete(bookInstanceTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *bookInstanceRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, bookInstanceTableName, nil)
}

func (r *bookInstanceRepository) CountByStatus(ctx context.Context, status model.Status) (int, error) {
	return count(ctx, r.db, bookInstanceTableName, sq.Eq{"status": status})
}

func (r *bookInstanceRepository) populateBooks(ctx context.Context, instances []model.BookInstance) error {
	if len(instances) == 0 {
		return nil
	}
	ids := make([]string, 0, len(instances))
	for _, bi := range instances {
		ids = append(ids, bi.BookID)
	}
	query, args, err := qb.Select(bookColumns).
		From(bookTableName).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return err
	}
	byID := make(map[string]model.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	for i := range instances {
		if b, ok := byID[instances[i].BookID]; ok {
			b := b
			instances[i].Book = &b
		}
	}
	return nil
}
