package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/internal/errs"
	"github.com/Astemirdum/local-library/internal/model"
)

// ErrDuplicateGenre reports a create that lost the race with another
// insert of the same name; the unique index backs the app-level check.
var ErrDuplicateGenre = errors.New("genre already exists")

type genreRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func (r *genreRepository) List(ctx context.Context) ([]model.Genre, error) {
	query, args, err := qb.Select("id", "name").
		From(genreTableName).
		OrderBy("name asc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var genres []model.Genre
	if err := r.db.SelectContext(ctx, &genres, query, args...); err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) Get(ctx context.Context, id string) (model.Genre, error) {
	if err := checkID(id); err != nil {
		return model.Genre{}, err
	}
	return r.get(ctx, sq.Eq{"id": id})
}

func (r *genreRepository) FindByName(ctx context.Context, name string) (model.Genre, error) {
	return r.get(ctx, sq.Eq{"name": name})
}

func (r *genreRepository) get(ctx context.Context, pred any) (model.Genre, error) {
	query, args, err := qb.Select("id", "name").
		From(genreTableName).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}
	var g model.Genre
	if err := r.db.GetContext(ctx, &g, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Genre{}, errs.ErrNotFound
		}
		return model.Genre{}, err
	}
	return g, nil
}

func (r *genreRepository) Create(ctx context.Context, g model.Genre) (string, error) {
	id := uuid.New().String()
	query, args, err := qb.Insert(genreTableName).
		Columns("id", "name").
		Values(id, g.Name).
		ToSql()
	if err != nil {
		return "", err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", ErrDuplicateGenre
		}
		r.log.Error("genre create", zap.String("q", query), zap.Error(err))
		return "", err
	}
	return id, nil
}

func (r *genreRepository) Update(ctx context.Context, id string, g model.Genre) error {
	if err := checkID(id); err != nil {
		return err
	}
	query, args, err := qb.Update(genreTableName).
		Set("name", g.Name).
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

func (r *genreRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	query, args, err := qb.Delete(genreTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *genreRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, genreTableName, nil)
}
