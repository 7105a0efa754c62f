package loans

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	loanService *Service
}

func (h *handler) borrow(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoanPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.loanService.BorrowBook(ctx, params.MemberID, params.BookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, record))
}

func (h *handler) giveBack(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoanPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.loanService.ReturnBook(ctx, params.MemberID, params.BookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, record))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBorrowRecordsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	records, err := h.loanService.ListBorrowRecords(ctx, ListBorrowRecordsOptions{
		MemberID: params.MemberID,
		BookID:   params.BookID,
		OpenOnly: params.Open,
		Limit:    &params.Limit,
		Offset:   &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, records))
}
