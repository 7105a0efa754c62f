package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/lending/pkg/books"
	"github.com/shishobooks/lending/pkg/catalog"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/shishobooks/lending/pkg/reports"
)

const banner = `
Library CLI
1) Register member
2) Add book
3) List all books
4) Search books
5) Show member details & borrows
6) Update book stock
7) Update member email
8) Delete member
9) Delete book
10) Borrow book
11) Return book
12) Reports: overdue
13) Reports: most borrowed
0) Exit
`

type command func(ctx context.Context) error

type Option func(*Menu)

// WithDefaults sets the values used when the overdue threshold or the
// most-borrowed limit prompt is left empty.
func WithDefaults(overdueDays, mostBorrowedLimit int) Option {
	return func(m *Menu) {
		m.overdueDays = overdueDays
		m.mostBorrowedLimit = mostBorrowedLimit
	}
}

func WithLogger(log logger.Logger) Option {
	return func(m *Menu) {
		m.log = log
	}
}

// Menu is the interactive numbered-choice loop over a catalog.
type Menu struct {
	ops      catalog.Operations
	in       *bufio.Scanner
	out      io.Writer
	log      logger.Logger
	commands map[string]command

	overdueDays       int
	mostBorrowedLimit int
}

func New(ops catalog.Operations, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		ops:               ops,
		in:                bufio.NewScanner(in),
		out:               out,
		log:               logger.New(),
		overdueDays:       reports.DefaultOverdueThresholdDays,
		mostBorrowedLimit: reports.DefaultMostBorrowedLimit,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.commands = map[string]command{
		"1":  m.registerMember,
		"2":  m.addBook,
		"3":  m.listBooks,
		"4":  m.searchBooks,
		"5":  m.showMember,
		"6":  m.updateBookStock,
		"7":  m.updateMemberEmail,
		"8":  m.deleteMember,
		"9":  m.deleteBook,
		"10": m.borrowBook,
		"11": m.returnBook,
		"12": m.reportOverdue,
		"13": m.reportMostBorrowed,
	}

	return m
}

// Run prints the menu and executes choices until the user exits or input
// runs out. Command errors are printed and the loop carries on.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, banner)

		choice, err := m.prompt("Choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if choice == "0" {
			fmt.Fprintln(m.out, "Bye!")
			return nil
		}

		cmd, ok := m.commands[choice]
		if !ok {
			fmt.Fprintln(m.out, "Invalid option")
			continue
		}

		log := m.log.ID(uuid.New().String()).Root(logger.Data{"choice": choice})
		err = cmd(log.WithContext(ctx))
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		var e *errcodes.Error
		if !errors.As(err, &e) {
			log.Err(err).Error("command failed")
		}
		fmt.Fprintf(m.out, "ERROR: %s\n", err.Error())
	}
}

// prompt prints label and reads one trimmed line. It returns io.EOF once the
// input is exhausted.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", errors.WithStack(err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// promptInt reads an integer. An empty answer yields def when it is set.
func (m *Menu) promptInt(label string, def *int) (int, error) {
	s, err := m.prompt(label)
	if err != nil {
		return 0, err
	}
	if s == "" && def != nil {
		return *def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errcodes.ValidationError(fmt.Sprintf("%q is not a whole number", s))
	}
	return n, nil
}

func (m *Menu) registerMember(ctx context.Context) error {
	name, err := m.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := m.prompt("Email: ")
	if err != nil {
		return err
	}

	member, err := m.ops.RegisterMember(ctx, name, email)
	if err != nil {
		return err
	}
	writeMembers(m.out, member)
	return nil
}

func (m *Menu) addBook(ctx context.Context) error {
	title, err := m.prompt("Title: ")
	if err != nil {
		return err
	}
	author, err := m.prompt("Author: ")
	if err != nil {
		return err
	}
	category, err := m.prompt("Category: ")
	if err != nil {
		return err
	}
	def := 1
	stock, err := m.promptInt("Stock: ", &def)
	if err != nil {
		return err
	}

	book, err := m.ops.AddBook(ctx, books.AddBookOptions{
		Title:    title,
		Author:   author,
		Category: category,
		Stock:    &stock,
	})
	if err != nil {
		return err
	}
	writeBooks(m.out, book)
	return nil
}

func (m *Menu) listBooks(ctx context.Context) error {
	list, err := m.ops.ListBooks(ctx)
	if err != nil {
		return err
	}
	writeBooks(m.out, list...)
	return nil
}

func (m *Menu) searchBooks(ctx context.Context) error {
	term, err := m.prompt("Search term: ")
	if err != nil {
		return err
	}
	list, err := m.ops.SearchBooks(ctx, term)
	if err != nil {
		return err
	}
	writeBooks(m.out, list...)
	return nil
}

func (m *Menu) showMember(ctx context.Context) error {
	identifier, err := m.prompt("Enter member_id or email: ")
	if err != nil {
		return err
	}
	member, records, err := m.ops.ShowMember(ctx, identifier)
	if err != nil {
		return err
	}
	writeMembers(m.out, member)
	fmt.Fprintln(m.out, "Borrows:")
	writeBorrowRecords(m.out, records)
	return nil
}

func (m *Menu) updateBookStock(ctx context.Context) error {
	id, err := m.promptInt("Book ID: ", nil)
	if err != nil {
		return err
	}
	stock, err := m.promptInt("New stock: ", nil)
	if err != nil {
		return err
	}
	book, err := m.ops.UpdateBookStock(ctx, id, stock)
	if err != nil {
		return err
	}
	writeBooks(m.out, book)
	return nil
}

func (m *Menu) updateMemberEmail(ctx context.Context) error {
	id, err := m.promptInt("Member ID: ", nil)
	if err != nil {
		return err
	}
	email, err := m.prompt("New email: ")
	if err != nil {
		return err
	}
	member, err := m.ops.UpdateMemberEmail(ctx, id, email)
	if err != nil {
		return err
	}
	writeMembers(m.out, member)
	return nil
}

func (m *Menu) deleteMember(ctx context.Context) error {
	id, err := m.promptInt("Member ID to delete: ", nil)
	if err != nil {
		return err
	}
	if err := m.ops.DeleteMember(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Deleted member %d.\n", id)
	return nil
}

func (m *Menu) deleteBook(ctx context.Context) error {
	id, err := m.promptInt("Book ID to delete: ", nil)
	if err != nil {
		return err
	}
	if err := m.ops.DeleteBook(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Deleted book %d.\n", id)
	return nil
}

func (m *Menu) borrowBook(ctx context.Context) error {
	memberID, bookID, err := m.promptPair()
	if err != nil {
		return err
	}
	record, err := m.ops.BorrowBook(ctx, memberID, bookID)
	if err != nil {
		return err
	}
	writeBorrowRecords(m.out, []*models.BorrowRecord{record})
	return nil
}

func (m *Menu) returnBook(ctx context.Context) error {
	memberID, bookID, err := m.promptPair()
	if err != nil {
		return err
	}
	record, err := m.ops.ReturnBook(ctx, memberID, bookID)
	if err != nil {
		return err
	}
	writeBorrowRecords(m.out, []*models.BorrowRecord{record})
	return nil
}

func (m *Menu) promptPair() (int, int, error) {
	memberID, err := m.promptInt("Member ID: ", nil)
	if err != nil {
		return 0, 0, err
	}
	bookID, err := m.promptInt("Book ID: ", nil)
	if err != nil {
		return 0, 0, err
	}
	return memberID, bookID, nil
}

func (m *Menu) reportOverdue(ctx context.Context) error {
	days, err := m.promptInt(fmt.Sprintf("Overdue days (default %d): ", m.overdueDays), &m.overdueDays)
	if err != nil {
		return err
	}
	records, err := m.ops.ReportOverdue(ctx, reports.OverdueOptions{ThresholdDays: &days})
	if err != nil {
		return err
	}
	WriteOverdue(m.out, records)
	return nil
}

func (m *Menu) reportMostBorrowed(ctx context.Context) error {
	limit, err := m.promptInt(fmt.Sprintf("Top N (default %d): ", m.mostBorrowedLimit), &m.mostBorrowedLimit)
	if err != nil {
		return err
	}
	counts, err := m.ops.ReportMostBorrowed(ctx, reports.MostBorrowedOptions{Limit: &limit})
	if err != nil {
		return err
	}
	WriteMostBorrowed(m.out, counts)
	return nil
}
