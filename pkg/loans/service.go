package loans

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/uptrace/bun"
)

type ListBorrowRecordsOptions struct {
	MemberID *int
	BookID   *int
	OpenOnly bool
	Limit    *int
	Offset   *int
}

type Option func(*Service)

// WithClock replaces time.Now as the source of borrow and return timestamps.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		svc.now = now
	}
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB, opts ...Option) *Service {
	svc := &Service{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// BorrowBook lends one copy of a book to a member. The stock decrement and
// the record insert happen in one transaction, and the decrement only applies
// while stock is positive.
func (svc *Service) BorrowBook(ctx context.Context, memberID, bookID int) (*models.BorrowRecord, error) {
	var record *models.BorrowRecord

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Member)(nil)).
			Where("m.id = ?", memberID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Member")
		}

		book := &models.Book{}
		err = tx.NewSelect().
			Model(book).
			Where("b.id = ?", bookID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Book")
			}
			return errors.WithStack(err)
		}

		open, err := openRecordQuery(tx, (*models.BorrowRecord)(nil), memberID, bookID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if open {
			return errcodes.Conflict(fmt.Sprintf("Member %d already has %q borrowed.", memberID, book.Title))
		}

		now := svc.now().UTC()

		res, err := tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("stock = stock - 1").
			Set("updated_at = ?", now).
			Where("id = ?", bookID).
			Where("stock > 0").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return errors.WithStack(err)
		} else if n == 0 {
			return errcodes.OutOfStock(book.Title)
		}

		record = &models.BorrowRecord{
			MemberID:   memberID,
			BookID:     bookID,
			BorrowedAt: now,
		}
		_, err = tx.NewInsert().
			Model(record).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errcodes.FromDB(err, "Borrow record")
		}

		book.Stock--
		record.Book = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("book borrowed", logger.Data{
		"record_id": record.ID,
		"member_id": memberID,
		"book_id":   bookID,
	})

	return record, nil
}

// ReturnBook closes the most recent open record for the member and book and
// puts the copy back in stock.
func (svc *Service) ReturnBook(ctx context.Context, memberID, bookID int) (*models.BorrowRecord, error) {
	record := &models.BorrowRecord{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := openRecordQuery(tx, record, memberID, bookID).
			Order("br.borrowed_at DESC", "br.id DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Borrow record")
			}
			return errors.WithStack(err)
		}

		now := svc.now().UTC()

		res, err := tx.NewUpdate().
			Model((*models.BorrowRecord)(nil)).
			Set("returned_at = ?", now).
			Where("id = ?", record.ID).
			Where("returned_at IS NULL").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return errors.WithStack(err)
		} else if n == 0 {
			return errcodes.NotFound("Borrow record")
		}

		_, err = tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("stock = stock + 1").
			Set("updated_at = ?", now).
			Where("id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		book := &models.Book{}
		err = tx.NewSelect().
			Model(book).
			Where("b.id = ?", bookID).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		record.ReturnedAt = &now
		record.Book = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("book returned", logger.Data{
		"record_id": record.ID,
		"member_id": memberID,
		"book_id":   bookID,
	})

	return record, nil
}

func (svc *Service) ListBorrowRecords(ctx context.Context, opts ListBorrowRecordsOptions) ([]*models.BorrowRecord, error) {
	records := []*models.BorrowRecord{}

	q := svc.db.NewSelect().
		Model(&records).
		Relation("Member").
		Relation("Book").
		Order("br.borrowed_at DESC", "br.id DESC")

	if opts.MemberID != nil {
		q = q.Where("br.member_id = ?", *opts.MemberID)
	}
	if opts.BookID != nil {
		q = q.Where("br.book_id = ?", *opts.BookID)
	}
	if opts.OpenOnly {
		q = q.Where("br.returned_at IS NULL")
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
	return records, nil
}

func openRecordQuery(tx bun.Tx, model interface{}, memberID, bookID int) *bun.SelectQuery {
	return tx.NewSelect().
		Model(model).
		Where("br.member_id = ?", memberID).
		Where("br.book_id = ?", bookID).
		Where("br.returned_at IS NULL")
}
