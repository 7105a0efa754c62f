package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int
	Search *string
}

type AddBookOptions struct {
	Title    string
	Author   string
	Category string
	// Stock defaults to models.DefaultBookStock when nil.
	Stock *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) AddBook(ctx context.Context, opts AddBookOptions) (*models.Book, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return nil, errcodes.ValidationError(`"title" is required`)
	}
	stock := models.DefaultBookStock
	if opts.Stock != nil {
		stock = *opts.Stock
	}
	if stock < 0 {
		return nil, errcodes.ValidationError(`"stock" must be greater than or equal to 0`)
	}

	now := time.Now().UTC()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		Author:    strings.TrimSpace(opts.Author),
		Category:  strings.TrimSpace(opts.Category),
		Stock:     stock,
	}

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, "Book")
	}
	return book, nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// ListBooks returns books ordered by title. Ties keep insertion order.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	books := []*models.Book{}

	q := svc.db.
		NewSelect().
		Model(&books).
		Order("b.title ASC", "b.id ASC")

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where(`LOWER(b.title) LIKE ? ESCAPE '\'`, likePattern(*opts.Search))
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return books, nil
}

// SearchBooks matches term as a case-insensitive substring of the title.
func (svc *Service) SearchBooks(ctx context.Context, term string) ([]*models.Book, error) {
	return svc.ListBooks(ctx, ListBooksOptions{Search: &term})
}

// UpdateBookStock overwrites the stock count. Outstanding borrows are not
// taken into account.
func (svc *Service) UpdateBookStock(ctx context.Context, bookID, stock int) (*models.Book, error) {
	if stock < 0 {
		return nil, errcodes.ValidationError(`"stock" must be greater than or equal to 0`)
	}

	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &bookID})
	if err != nil {
		return nil, err
	}

	book.Stock = stock
	book.UpdatedAt = time.Now().UTC()

	_, err = svc.db.
		NewUpdate().
		Model(book).
		Column("stock", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, "Book")
	}
	return book, nil
}

// DeleteBook removes a book that has never been borrowed. The reference check
// and the delete share one transaction.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("b.id = ?", bookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Book")
		}

		refs, err := tx.NewSelect().
			Model((*models.BorrowRecord)(nil)).
			Where("br.book_id = ?", bookID).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if refs > 0 {
			return errcodes.ReferentialIntegrity("book", "borrow records")
		}

		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		return errcodes.FromDB(err, "Book")
	})
}

// likePattern lowercases term and escapes LIKE wildcards so that it only
// matches literally.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
