package menu

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shishobooks/lending/pkg/models"
	"github.com/shishobooks/lending/pkg/reports"
)

const timeLayout = "2006-01-02 15:04"

func writeTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func writeMembers(w io.Writer, list ...*models.Member) {
	rows := make([][]string, 0, len(list))
	for _, member := range list {
		rows = append(rows, []string{
			strconv.Itoa(member.ID),
			member.Name,
			member.Email,
			member.CreatedAt.Format(timeLayout),
		})
	}
	writeTable(w, []string{"member_id", "name", "email", "join_date"}, rows)
}

func writeBooks(w io.Writer, list ...*models.Book) {
	rows := make([][]string, 0, len(list))
	for _, book := range list {
		rows = append(rows, []string{
			strconv.Itoa(book.ID),
			book.Title,
			book.Author,
			book.Category,
			strconv.Itoa(book.Stock),
		})
	}
	writeTable(w, []string{"book_id", "title", "author", "category", "stock"}, rows)
}

func writeBorrowRecords(w io.Writer, records []*models.BorrowRecord) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		var title, author string
		if r.Book != nil {
			title, author = r.Book.Title, r.Book.Author
		}
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.MemberID),
			strconv.Itoa(r.BookID),
			title,
			author,
			r.BorrowedAt.Format(timeLayout),
			formatReturned(r.ReturnedAt),
		})
	}
	writeTable(w, []string{"record_id", "member_id", "book_id", "title", "author", "borrow_date", "return_date"}, rows)
}

// WriteOverdue renders an overdue report as an aligned table.
func WriteOverdue(w io.Writer, records []*reports.OverdueRecord) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.RecordID),
			strconv.Itoa(r.MemberID),
			r.MemberName,
			strconv.Itoa(r.BookID),
			r.BookTitle,
			r.BorrowedAt.Format(timeLayout),
		})
	}
	writeTable(w, []string{"record_id", "member_id", "name", "book_id", "title", "borrow_date"}, rows)
}

// WriteMostBorrowed renders a most-borrowed report as an aligned table.
func WriteMostBorrowed(w io.Writer, counts []*reports.BookBorrowCount) {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{
			strconv.Itoa(c.BookID),
			c.Title,
			c.Author,
			strconv.Itoa(c.TimesBorrowed),
		})
	}
	writeTable(w, []string{"book_id", "title", "author", "times_borrowed"}, rows)
}

func formatReturned(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timeLayout)
}
