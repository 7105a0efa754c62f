package reports

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/uptrace/bun"
)

const (
	DefaultOverdueThresholdDays = 14
	DefaultMostBorrowedLimit    = 10
)

// OverdueRecord is an open borrow record past the threshold, flattened with
// the member name and book title.
type OverdueRecord struct {
	RecordID   int       `bun:"record_id" json:"record_id"`
	MemberID   int       `bun:"member_id" json:"member_id"`
	MemberName string    `bun:"member_name" json:"member_name"`
	BookID     int       `bun:"book_id" json:"book_id"`
	BookTitle  string    `bun:"book_title" json:"book_title"`
	BorrowedAt time.Time `bun:"borrowed_at" json:"borrowed_at"`
}

type BookBorrowCount struct {
	BookID        int    `bun:"book_id" json:"book_id"`
	Title         string `bun:"title" json:"title"`
	Author        string `bun:"author" json:"author"`
	TimesBorrowed int    `bun:"times_borrowed" json:"times_borrowed"`
}

type OverdueOptions struct {
	ThresholdDays *int
	AsOf          *time.Time
}

type MostBorrowedOptions struct {
	Limit *int
}

type Option func(*Service)

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

// Overdue lists open records borrowed strictly before asOf minus the
// threshold, oldest first.
func (svc *Service) Overdue(ctx context.Context, opts OverdueOptions) ([]*OverdueRecord, error) {
	days := DefaultOverdueThresholdDays
	if opts.ThresholdDays != nil {
		days = *opts.ThresholdDays
	}
	if days < 0 {
		return nil, errcodes.ValidationError("Overdue threshold must be zero or more days.")
	}

	asOf := svc.now()
	if opts.AsOf != nil {
		asOf = *opts.AsOf
	}
	cutoff := asOf.UTC().AddDate(0, 0, -days)

	records := []*OverdueRecord{}
	err := svc.db.NewSelect().
		TableExpr("borrow_records AS br").
		ColumnExpr("br.id AS record_id").
		ColumnExpr("br.member_id").
		ColumnExpr("m.name AS member_name").
		ColumnExpr("br.book_id").
		ColumnExpr("b.title AS book_title").
		ColumnExpr("br.borrowed_at").
		Join("JOIN members AS m ON m.id = br.member_id").
		Join("JOIN books AS b ON b.id = br.book_id").
		Where("br.returned_at IS NULL").
		Where("br.borrowed_at < ?", cutoff).
		OrderExpr("br.borrowed_at ASC, br.id ASC").
		Scan(ctx, &records)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return records, nil
}

// MostBorrowed ranks books by how many times they have ever been borrowed.
// Ties go to the lower book id.
func (svc *Service) MostBorrowed(ctx context.Context, opts MostBorrowedOptions) ([]*BookBorrowCount, error) {
	limit := DefaultMostBorrowedLimit
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	if limit <= 0 {
		return nil, errcodes.ValidationError("Limit must be greater than 0.")
	}

	counts := []*BookBorrowCount{}
	err := svc.db.NewSelect().
		TableExpr("borrow_records AS br").
		ColumnExpr("b.id AS book_id").
		ColumnExpr("b.title").
		ColumnExpr("b.author").
		ColumnExpr("COUNT(br.id) AS times_borrowed").
		Join("JOIN books AS b ON b.id = br.book_id").
		GroupExpr("b.id").
		OrderExpr("times_borrowed DESC, b.id ASC").
		Limit(limit).
		Scan(ctx, &counts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return counts, nil
}
