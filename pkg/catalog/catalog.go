package catalog

import (
	"context"
	"time"

	"github.com/shishobooks/lending/pkg/books"
	"github.com/shishobooks/lending/pkg/loans"
	"github.com/shishobooks/lending/pkg/members"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/shishobooks/lending/pkg/reports"
	"github.com/uptrace/bun"
)

// Operations is the set of library actions offered by the interactive menu.
type Operations interface {
	RegisterMember(ctx context.Context, name, email string) (*models.Member, error)
	AddBook(ctx context.Context, opts books.AddBookOptions) (*models.Book, error)
	ListBooks(ctx context.Context) ([]*models.Book, error)
	SearchBooks(ctx context.Context, term string) ([]*models.Book, error)
	ShowMember(ctx context.Context, identifier string) (*models.Member, []*models.BorrowRecord, error)
	UpdateBookStock(ctx context.Context, bookID, stock int) (*models.Book, error)
	UpdateMemberEmail(ctx context.Context, memberID int, email string) (*models.Member, error)
	DeleteMember(ctx context.Context, memberID int) error
	DeleteBook(ctx context.Context, bookID int) error
	BorrowBook(ctx context.Context, memberID, bookID int) (*models.BorrowRecord, error)
	ReturnBook(ctx context.Context, memberID, bookID int) (*models.BorrowRecord, error)
	ReportOverdue(ctx context.Context, opts reports.OverdueOptions) ([]*reports.OverdueRecord, error)
	ReportMostBorrowed(ctx context.Context, opts reports.MostBorrowedOptions) ([]*reports.BookBorrowCount, error)
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used for borrow timestamps and overdue reports.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Catalog ties the member, book, loan and report services to one database.
type Catalog struct {
	members *members.Service
	books   *books.Service
	loans   *loans.Service
	reports *reports.Service
}

var _ Operations = (*Catalog)(nil)

func New(db *bun.DB, opts ...Option) *Catalog {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	return &Catalog{
		members: members.NewService(db),
		books:   books.NewService(db),
		loans:   loans.NewService(db, loans.WithClock(o.now)),
		reports: reports.NewService(db, reports.WithClock(o.now)),
	}
}

func (c *Catalog) RegisterMember(ctx context.Context, name, email string) (*models.Member, error) {
	return c.members.RegisterMember(ctx, name, email)
}

func (c *Catalog) AddBook(ctx context.Context, opts books.AddBookOptions) (*models.Book, error) {
	return c.books.AddBook(ctx, opts)
}

func (c *Catalog) ListBooks(ctx context.Context) ([]*models.Book, error) {
	return c.books.ListBooks(ctx, books.ListBooksOptions{})
}

func (c *Catalog) SearchBooks(ctx context.Context, term string) ([]*models.Book, error) {
	return c.books.SearchBooks(ctx, term)
}

func (c *Catalog) ShowMember(ctx context.Context, identifier string) (*models.Member, []*models.BorrowRecord, error) {
	return c.members.ShowMember(ctx, identifier)
}

func (c *Catalog) UpdateBookStock(ctx context.Context, bookID, stock int) (*models.Book, error) {
	return c.books.UpdateBookStock(ctx, bookID, stock)
}

func (c *Catalog) UpdateMemberEmail(ctx context.Context, memberID int, email string) (*models.Member, error) {
	return c.members.UpdateMemberEmail(ctx, memberID, email)
}

func (c *Catalog) DeleteMember(ctx context.Context, memberID int) error {
	return c.members.DeleteMember(ctx, memberID)
}

func (c *Catalog) DeleteBook(ctx context.Context, bookID int) error {
	return c.books.DeleteBook(ctx, bookID)
}

func (c *Catalog) BorrowBook(ctx context.Context, memberID, bookID int) (*models.BorrowRecord, error) {
	return c.loans.BorrowBook(ctx, memberID, bookID)
}

func (c *Catalog) ReturnBook(ctx context.Context, memberID, bookID int) (*models.BorrowRecord, error) {
	return c.loans.ReturnBook(ctx, memberID, bookID)
}

func (c *Catalog) ReportOverdue(ctx context.Context, opts reports.OverdueOptions) ([]*reports.OverdueRecord, error) {
	return c.reports.Overdue(ctx, opts)
}

func (c *Catalog) ReportMostBorrowed(ctx context.Context, opts reports.MostBorrowedOptions) ([]*reports.BookBorrowCount, error) {
	return c.reports.MostBorrowed(ctx, opts)
}
