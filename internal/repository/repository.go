package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/internal/errs"
	"github.com/Astemirdum/local-library/internal/model"
)

type AuthorRepository interface {
	List(ctx context.Context) ([]model.Author, error)
	Get(ctx context.Context, id string) (model.Author, error)
	Create(ctx context.Context, a model.Author) (string, error)
	Update(ctx context.Context, id string, a model.Author) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type GenreRepository interface {
	List(ctx context.Context) ([]model.Genre, error)
	Get(ctx context.Context, id string) (model.Genre, error)
	FindByName(ctx context.Context, name string) (model.Genre, error)
	Create(ctx context.Context, g model.Genre) (string, error)
	Update(ctx context.Context, id string, g model.Genre) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type BookRepository interface {
	List(ctx context.Context) ([]model.Book, error)
	Get(ctx context.Context, id string) (model.Book, error)
	ListByAuthor(ctx context.Context, authorID string) ([]model.Book, error)
	ListByGenre(ctx context.Context, genreID string) ([]model.Book, error)
	Create(ctx context.Context, b model.Book) (string, error)
	Update(ctx context.Context, id string, b model.Book) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type BookInstanceRepository interface {
	List(ctx context.Context) ([]model.BookInstance, error)
	Get(ctx context.Context, id string) (model.BookInstance, error)
	ListByBook(ctx context.Context, bookID string) ([]model.BookInstance, error)
	Create(ctx context.Context, bi model.BookInstance) (string, error)
	Update(ctx context.Context, id string, bi model.BookInstance) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status model.Status) (int, error)
}

// Repository bundles the per-entity stores over one shared connection.
type Repository struct {
	Author       AuthorRepository
	Genre        GenreRepository
	Book         BookRepository
	BookInstance BookInstanceRepository
}

func NewRepository(db *sqlx.DB, log *zap.Logger) *Repository {
	log = log.Named("repo")
	return &Repository{
		Author:       &authorRepository{db: db, log: log},
		Genre:        &genreRepository{db: db, log: log},
		Book:         &bookRepository{db: db, log: log},
		BookInstance: &bookInstanceRepository{db: db, log: log},
	}
}

const (
	authorTableName       = `authors`
	genreTableName        = `genres`
	bookTableName         = `books`
	bookGenreTableName    = `book_genres`
	bookInstanceTableName = `book_instances`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// checkID rejects identifiers that cannot be a stored key before they
// reach the database, so a malformed path id reads as "no such record"
// rather than a query error.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.ErrNotFound
	}
	return nil
}

func count(ctx context.Context, db *sqlx.DB, table string, pred any) (int, error) {
	q := qb.Select("count(*)").From(table)
	if pred != nil {
		q = q.Where(pred)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
