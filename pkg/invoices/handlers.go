package invoices

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	invoiceService *Service
}

func (h *handler) generate(c echo.Context) error {
	ctx := c.Request().Context()

	params := GenerateInvoicePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	lines := make([]Line, 0, len(params.Lines))
	for _, l := range params.Lines {
		lines = append(lines, Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	invoice, err := h.invoiceService.Generate(ctx, GenerateOptions{
		Lines:           lines,
		DiscountPercent: params.DiscountPercent,
		GSTPercent:      params.GSTPercent,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, invoice))
}
