package testutils

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// createBorrowRecordRequest seeds a record with arbitrary timestamps. Stock is
// not adjusted.
type createBorrowRecordRequest struct {
	MemberID   int        `json:"member_id" validate:"required,min=1"`
	BookID     int        `json:"book_id" validate:"required,min=1"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

// createBorrowRecord inserts a backdated borrow record.
// POST /test/borrow-records.
func (h *handler) createBorrowRecord(c echo.Context) error {
	ctx := c.Request().Context()

	var req createBorrowRecordRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.BorrowedAt.IsZero() {
		return errcodes.ValidationError(`"borrowed_at" is required`)
	}

	record := &models.BorrowRecord{
		MemberID:   req.MemberID,
		BookID:     req.BookID,
		BorrowedAt: req.BorrowedAt.UTC(),
	}
	if req.ReturnedAt != nil {
		at := req.ReturnedAt.UTC()
		record.ReturnedAt = &at
	}

	_, err := h.db.NewInsert().Model(record).Returning("*").Exec(ctx)
	if err != nil {
		return errcodes.FromDB(err, "Borrow record")
	}

	return errors.WithStack(c.JSON(http.StatusCreated, record))
}

// deleteAllResponse is the response body for wiping the database.
type deleteAllResponse struct {
	BorrowRecords int `json:"borrow_records"`
	Books         int `json:"books"`
	Members       int `json:"members"`
	Products      int `json:"products"`
}

// deleteAll removes every row from the lending and product tables.
// DELETE /test/data.
func (h *handler) deleteAll(c echo.Context) error {
	ctx := c.Request().Context()
	resp := deleteAllResponse{}

	err := h.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// Borrow records first (foreign key constraint)
		steps := []struct {
			model interface{}
			count *int
		}{
			{(*models.BorrowRecord)(nil), &resp.BorrowRecords},
			{(*models.Book)(nil), &resp.Books},
			{(*models.Member)(nil), &resp.Members},
			{(*models.Product)(nil), &resp.Products},
		}
		for _, step := range steps {
			result, err := tx.NewDelete().
				Model(step.model).
				Where("1=1").
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return errors.WithStack(err)
			}
			*step.count = int(n)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
