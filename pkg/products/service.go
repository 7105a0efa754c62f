package products

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/uptrace/bun"
)

type AddProductOptions struct {
	Name       string
	SKU        string
	PriceCents int64
	Stock      int
}

type RetrieveProductOptions struct {
	ID  *int
	SKU *string
}

type ListProductsOptions struct {
	Limit  *int
	Offset *int
	IDs    []int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) AddProduct(ctx context.Context, opts AddProductOptions) (*models.Product, error) {
	name := strings.TrimSpace(opts.Name)
	sku := strings.TrimSpace(opts.SKU)
	switch {
	case name == "":
		return nil, errcodes.ValidationError(`"name" is required`)
	case sku == "":
		return nil, errcodes.ValidationError(`"sku" is required`)
	case opts.PriceCents < 0:
		return nil, errcodes.ValidationError(`"price_cents" must be greater than or equal to 0`)
	case opts.Stock < 0:
		return nil, errcodes.ValidationError(`"stock" must be greater than or equal to 0`)
	}

	now := time.Now().UTC()
	product := &models.Product{
		CreatedAt:  now,
		UpdatedAt:  now,
		Name:       name,
		SKU:        sku,
		PriceCents: opts.PriceCents,
		Stock:      opts.Stock,
	}

	_, err := svc.db.
		NewInsert().
		Model(product).
		Returning("*").
		Exec(ctx)
	if err != nil {
		err = errcodes.FromDB(err, "Product")
		if errcodes.HasCode(err, "conflict") {
			return nil, errcodes.Conflict(fmt.Sprintf("A product with SKU %q already exists.", sku))
		}
		return nil, err
	}
	return product, nil
}

func (svc *Service) RetrieveProduct(ctx context.Context, opts RetrieveProductOptions) (*models.Product, error) {
	product := &models.Product{}

	q := svc.db.
		NewSelect().
		Model(product)

	if opts.ID != nil {
		q = q.Where("p.id = ?", *opts.ID)
	}
	if opts.SKU != nil {
		q = q.Where("p.sku = ?", *opts.SKU)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Product")
		}
		return nil, errors.WithStack(err)
	}

	return product, nil
}

func (svc *Service) ListProducts(ctx context.Context, opts ListProductsOptions) ([]*models.Product, error) {
	products := []*models.Product{}

	q := svc.db.
		NewSelect().
		Model(&products).
		Order("p.id ASC")

	if len(opts.IDs) > 0 {
		q = q.Where("p.id IN (?)", bun.In(opts.IDs))
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
	return products, nil
}

func (svc *Service) UpdateProductStock(ctx context.Context, productID, stock int) (*models.Product, error) {
	if stock < 0 {
		return nil, errcodes.ValidationError(`"stock" must be greater than or equal to 0`)
	}

	product, err := svc.RetrieveProduct(ctx, RetrieveProductOptions{ID: &productID})
	if err != nil {
		return nil, err
	}

	product.Stock = stock
	product.UpdatedAt = time.Now().UTC()

	_, err = svc.db.
		NewUpdate().
		Model(product).
		Column("stock", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, "Product")
	}
	return product, nil
}

func (svc *Service) DeleteProduct(ctx context.Context, productID int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Product)(nil)).
		Where("id = ?", productID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Product")
	}
	return nil
}
