package loans

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/migrations"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/sync/errgroup"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func insertMember(t *testing.T, db *bun.DB, name string) *models.Member {
	t.Helper()
	member := &models.Member{Name: name, Email: name + "@example.com"}
	_, err := db.NewInsert().Model(member).Exec(context.Background())
	require.NoError(t, err)
	return member
}

func insertBook(t *testing.T, db *bun.DB, title string, stock int) *models.Book {
	t.Helper()
	book := &models.Book{Title: title, Stock: stock}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

func bookStock(t *testing.T, db *bun.DB, id int) int {
	t.Helper()
	book := &models.Book{}
	err := db.NewSelect().Model(book).Where("b.id = ?", id).Scan(context.Background())
	require.NoError(t, err)
	return book.Stock
}

func openCount(t *testing.T, db *bun.DB, bookID int) int {
	t.Helper()
	n, err := db.NewSelect().
		Model((*models.BorrowRecord)(nil)).
		Where("br.book_id = ?", bookID).
		Where("br.returned_at IS NULL").
		Count(context.Background())
	require.NoError(t, err)
	return n
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestBorrowBook(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(db, WithClock(fixedClock(now)))
	ctx := t.Context()

	member := insertMember(t, db, "ann")
	book := insertBook(t, db, "Dune", 2)

	record, err := svc.BorrowBook(ctx, member.ID, book.ID)
	require.NoError(t, err)

	assert.NotZero(t, record.ID)
	assert.True(t, record.IsOpen())
	assert.True(t, now.Equal(record.BorrowedAt))
	assert.Equal(t, 1, record.Book.Stock)
	assert.Equal(t, 1, bookStock(t, db, book.ID))
}

func TestBorrowBook_OutOfStockLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := t.Context()

	member := insertMember(t, db, "ann")
	book := insertBook(t, db, "Dune", 0)

	_, err := svc.BorrowBook(ctx, member.ID, book.ID)
	assert.ErrorIs(t, err, errcodes.OutOfStock("Dune"))

	assert.Equal(t, 0, bookStock(t, db, book.ID))
	assert.Equal(t, 0, openCount(t, db, book.ID))
}

func TestBorrowBook_UnknownMemberOrBook(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := t.Context()

	member := insertMember(t, db, "ann")
	book := insertBook(t, db, "Dune", 1)

	_, err := svc.BorrowBook(ctx, 999, book.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Member"))

	_, err = svc.BorrowBook(ctx, member.ID, 999)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))

	assert.Equal(t, 1, bookStock(t, db, book.ID))
}

func TestBorrowBook_RejectsSecondOpenBorrow(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := t.Context()

	member := insertMember(t, db, "ann")
	book := insertBook(t, db, "Dune", 3)

	_, err := svc.BorrowBook(ctx, member.ID, book.ID)
	require.NoError(t, err)

	_, err = svc.BorrowBook(ctx, member.ID, book.ID)
	assert.True(t, errcodes.HasCode(err, "conflict"))
	assert.Equal(t, 2, bookStock(t, db, book.ID))
}

func TestReturnBook(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	borrowedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	returnedAt := borrowedAt.Add(72 * time.Hour)
	ctx := t.Context()

	member := insertMember(t, db, "ann")
	book := insertBook(t, db, "Dune", 1)

	_, err := NewService(db, WithClock(fixedClock(borrowedAt))).BorrowBook(ctx, member.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, bookStock(t, db, book.ID))

	record, err := NewService(db, WithClock(fixedClock(returnedAt))).ReturnBook(ctx, member.ID, book.ID)
	require.NoError(t, err)

	require.NotNil(t, record.ReturnedAt)
	assert.True(t, returnedAt.Equal(*record.ReturnedAt))
	require.NotNil(t, record.Book)
	assert.Equal(t, "Dune", record.Book.Title)
	assert.Equal(t, 1, record.Book.Stock)
	assert.Equal(t, 1, bookStock(t, db, book.ID))
	assert.Equal(t, 0, openCount(t, db, book.ID))
}

func TestReturnBook_WithoutOpenRecord(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := t.Context()

	member := insertMember(t, db, "ann")
	book := insertBook(t, db, "Dune", 1)

	_, err := svc.ReturnBook(ctx, member.ID, book.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Borrow record"))

	_, err = svc.BorrowBook(ctx, member.ID, book.ID)
	require.NoError(t, err)
	_, err = svc.ReturnBook(ctx, member.ID, book.ID)
	require.NoError(t, err)

	_, err = svc.ReturnBook(ctx, member.ID, book.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Borrow record"))
	assert.Equal(t, 1, bookStock(t, db, book.ID))
}

func TestBorrowAndReturn_AllowsBorrowingAgain(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := t.Context()

	member := insertMember(t, db, "ann")
	book := insertBook(t, db, "Dune", 1)

	for i := 0; i < 3; i++ {
		_, err := svc.BorrowBook(ctx, member.ID, book.ID)
		require.NoError(t, err)
		_, err = svc.ReturnBook(ctx, member.ID, book.ID)
		require.NoError(t, err)
	}

	records, err := svc.ListBorrowRecords(ctx, ListBorrowRecordsOptions{MemberID: &member.ID})
	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, r := range records {
		assert.False(t, r.IsOpen())
	}
	assert.Equal(t, 1, bookStock(t, db, book.ID))
}

func TestBorrowBook_ConcurrentBorrowsConserveStock(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := t.Context()

	const stock = 3
	const borrowers = 8

	book := insertBook(t, db, "Dune", stock)
	members := make([]*models.Member, borrowers)
	for i := range members {
		members[i] = insertMember(t, db, fmt.Sprintf("member%d", i))
	}

	results := make([]error, borrowers)
	var g errgroup.Group
	for i, m := range members {
		g.Go(func() error {
			_, results[i] = svc.BorrowBook(ctx, m.ID, book.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errcodes.OutOfStock("Dune"))
	}

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, 0, bookStock(t, db, book.ID))
	assert.Equal(t, stock, openCount(t, db, book.ID))
}

func TestListBorrowRecords_Filters(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := t.Context()

	ann := insertMember(t, db, "ann")
	bob := insertMember(t, db, "bob")
	dune := insertBook(t, db, "Dune", 5)
	emma := insertBook(t, db, "Emma", 5)

	for i, pair := range [][2]int{{ann.ID, dune.ID}, {ann.ID, emma.ID}, {bob.ID, dune.ID}} {
		svc := NewService(db, WithClock(fixedClock(start.Add(time.Duration(i)*time.Hour))))
		_, err := svc.BorrowBook(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}
	_, err := NewService(db).ReturnBook(ctx, ann.ID, emma.ID)
	require.NoError(t, err)

	svc := NewService(db)

	records, err := svc.ListBorrowRecords(ctx, ListBorrowRecordsOptions{MemberID: &ann.ID})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, emma.ID, records[0].BookID)
	assert.Equal(t, "Emma", records[0].Book.Title)
	assert.Equal(t, "ann", records[0].Member.Name)

	records, err = svc.ListBorrowRecords(ctx, ListBorrowRecordsOptions{BookID: &dune.ID})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = svc.ListBorrowRecords(ctx, ListBorrowRecordsOptions{OpenOnly: true})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
