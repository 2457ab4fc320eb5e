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

type authorRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

const authorColumns = "id, first_name, family_name, date_of_birth, date_of_death"

func (r *authorRepository) List(ctx context.Context) ([]model.Author, error) {
	query, args, err := qb.Select(authorColumns).
		From(authorTableName).
		OrderBy("family_name asc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var authors []model.Author
	if err := r.db.SelectContext(ctx, &authors, query, args...); err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *authorRepository) Get(ctx context.Context, id string) (model.Author, error) {
	if err := checkID(id); err != nil {
		return model.Author{}, err
	}
	query, args, err := qb.Select(authorColumns).
		From(authorTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var a model.Author
	if err := r.db.GetContext(ctx, &a, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return a, nil
}

func (r *authorRepository) Create(ctx context.Context, a model.Author) (string, error) {
	id := uuid.New().String()
	query, args, err := qb.Insert(authorTableName).
		Columns("id", "first_name", "family_name", "date_of_birth", "date_of_death").
		Values(id, a.FirstName, a.FamilyName, a.DateOfBirth, a.DateOfDeath).
		ToSql()
	if err != nil {
		return "", err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("author create", zap.String("q", query), zap.Error(err))
		return "", err
	}
	return id, nil
}

func (r *authorRepository) Update(ctx context.Context, id string, a model.Author) error {
	if err := checkID(id); err != nil {
		return err
	}
	query, args, err := qb.Update(authorTableName).
		Set("first_name", a.FirstName).
		Set("family_name", a.FamilyName).
		Set("date_of_birth", a.DateOfBirth).
		Set("date_of_death", a.DateOfDeath).
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

func (r *authorRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	query, args, err := qb.Delete(authorTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *authorRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, authorTableName, nil)
}
