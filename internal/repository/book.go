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

type bookRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

const bookColumns = "id, title, author_id, summary, isbn"

func (r *bookRepository) List(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(bookTableName).
		ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	if err := r.populateAuthors(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) Get(ctx context.Context, id string) (model.Book, error) {
	if err := checkID(id); err != nil {
		return model.Book{}, err
	}
	query, args, err := qb.Select(bookColumns).
		From(bookTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var b model.Book
	if err := r.db.GetContext(ctx, &b, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}

	books := []model.Book{b}
	if err := r.populateAuthors(ctx, books); err != nil {
		return model.Book{}, err
	}
	b = books[0]

	genres, err := r.genresOf(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	b.Genres = genres
	return b, nil
}

func (r *bookRepository) ListByAuthor(ctx context.Context, authorID string) ([]model.Book, error) {
	if err := checkID(authorID); err != nil {
		return nil, nil
	}
	return r.list(ctx, sq.Eq{"author_id": authorID})
}

func (r *bookRepository) ListByGenre(ctx context.Context, genreID string) ([]model.Book, error) {
	if err := checkID(genreID); err != nil {
		return nil, nil
	}
	query, args, err := qb.Select("b.id", "b.title", "b.author_id", "b.summary", "b.isbn").
		From(bookTableName + " b").
		Join(bookGenreTableName + " bg on b.id = bg.book_id").
		Where(sq.Eq{"bg.genre_id": genreID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) list(ctx context.Context, pred any) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(bookTableName).
		Where(pred).
		ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) Create(ctx context.Context, b model.Book) (string, error) {
	id := uuid.New().String()
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := qb.Insert(bookTableName).
			Columns("id", "title", "author_id", "summary", "isbn").
			Values(id, b.Title, b.AuthorID, b.Summary, b.ISBN).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		return r.insertGenres(ctx, tx, id, b.GenreIDs())
	})
	if err != nil {
		r.log.Error("book create", zap.Error(err))
		return "", err
	}
	return id, nil
}

func (r *bookRepository) Update(ctx context.Context, id string, b model.Book) error {
	if err := checkID(id); err != nil {
		return err
	}
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := qb.Update(bookTableName).
			Set("title", b.Title).
			Set("author_id", b.AuthorID).
			Set("summary", b.Summary).
			Set("isbn", b.ISBN).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errs.ErrNotFound
		}
		query, args, err = qb.Delete(bookGenreTableName).
			Where(sq.Eq{"book_id": id}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		return r.insertGenres(ctx, tx, id, b.GenreIDs())
	})
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := qb.Delete(bookGenreTableName).
			Where(sq.Eq{"book_id": id}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		query, args, err = qb.Delete(bookTableName).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *bookRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, bookTableName, nil)
}

func (r *bookRepository) insertGenres(ctx context.Context, tx *sqlx.Tx, bookID string, genreIDs []string) error {
	if len(genreIDs) == 0 {
		return nil
	}
	q := qb.Insert(bookGenreTableName).Columns("book_id", "genre_id")
	for _, gid := range genreIDs {
		q = q.Values(bookID, gid)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (r *bookRepository) genresOf(ctx context.Context, bookID string) ([]model.Genre, error) {
	query, args, err := qb.Select("g.id", "g.name").
		From(genreTableName + " g").
		Join(bookGenreTableName + " bg on g.id = bg.genre_id").
		Where(sq.Eq{"bg.book_id": bookID}).
		OrderBy("g.name asc").
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

// populateAuthors resolves the author reference of every book in place,
// one query for the whole batch.
func (r *bookRepository) populateAuthors(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.AuthorID)
	}
	query, args, err := qb.Select(authorColumns).
		From(authorTableName).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}
	var authors []model.Author
	if err := r.db.SelectContext(ctx, &authors, query, args...); err != nil {
		return err
	}
	byID := make(map[string]model.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}
	for i := range books {
		if a, ok := byID[books[i].AuthorID]; ok {
			a := a
			books[i].Author = &a
		}
	}
	return nil
}

func (r *bookRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
