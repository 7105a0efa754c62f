package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/shishobooks/lending/pkg/products"
	"github.com/uptrace/bun"
)

const DefaultGSTPercent = 18

type Line struct {
	ProductID int
	Quantity  int
}

type GenerateOptions struct {
	Lines           []Line
	DiscountPercent float64
	// GSTPercent falls back to the service default when nil.
	GSTPercent *float64
}

type InvoiceLine struct {
	ProductID      int    `json:"product_id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
}

type Invoice struct {
	Number          string         `json:"number"`
	IssuedAt        time.Time      `json:"issued_at"`
	Lines           []*InvoiceLine `json:"lines"`
	SubtotalCents   int64          `json:"subtotal_cents"`
	DiscountPercent float64        `json:"discount_percent"`
	DiscountCents   int64          `json:"discount_cents"`
	TaxableCents    int64          `json:"taxable_cents"`
	GSTPercent      float64        `json:"gst_percent"`
	GSTCents        int64          `json:"gst_cents"`
	TotalCents      int64          `json:"total_cents"`
}

type Service struct {
	productService *products.Service
	gstPercent     float64
}

func NewService(db *bun.DB, gstPercent float64) *Service {
	return &Service{
		productService: products.NewService(db),
		gstPercent:     gstPercent,
	}
}

// Generate prices the given lines against current product prices. Stock is
// left untouched.
func (svc *Service) Generate(ctx context.Context, opts GenerateOptions) (*Invoice, error) {
	if len(opts.Lines) == 0 {
		return nil, errcodes.ValidationError(`"lines" is required`)
	}
	if opts.DiscountPercent < 0 || opts.DiscountPercent > 100 {
		return nil, errcodes.ValidationError(`"discount_percent" must be between 0 and 100`)
	}
	gst := svc.gstPercent
	if opts.GSTPercent != nil {
		gst = *opts.GSTPercent
	}
	if gst < 0 {
		return nil, errcodes.ValidationError(`"gst_percent" must be greater than or equal to 0`)
	}

	ids := make([]int, 0, len(opts.Lines))
	for _, line := range opts.Lines {
		if line.Quantity < 1 {
			return nil, errcodes.ValidationError(`"quantity" must be greater than or equal to 1`)
		}
		ids = append(ids, line.ProductID)
	}

	list, err := svc.productService.ListProducts(ctx, products.ListProductsOptions{IDs: ids})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	byID := make(map[int]*models.Product, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}

	invoice := &Invoice{
		Number:          uuid.New().String(),
		IssuedAt:        time.Now().UTC(),
		Lines:           make([]*InvoiceLine, 0, len(opts.Lines)),
		DiscountPercent: opts.DiscountPercent,
		GSTPercent:      gst,
	}
	for _, line := range opts.Lines {
		p, ok := byID[line.ProductID]
		if !ok {
			return nil, errcodes.NotFound("Product")
		}
		total := p.PriceCents * int64(line.Quantity)
		invoice.Lines = append(invoice.Lines, &InvoiceLine{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: p.PriceCents,
			TotalCents:     total,
		})
		invoice.SubtotalCents += total
	}

	invoice.DiscountCents = ApplyDiscount(invoice.SubtotalCents, opts.DiscountPercent)
	invoice.TaxableCents = invoice.SubtotalCents - invoice.DiscountCents
	invoice.TotalCents = AddGST(invoice.TaxableCents, gst)
	invoice.GSTCents = invoice.TotalCents - invoice.TaxableCents

	logger.FromContext(ctx).Info("invoice generated", logger.Data{
		"number":      invoice.Number,
		"lines":       len(invoice.Lines),
		"total_cents": invoice.TotalCents,
	})

	return invoice, nil
}
