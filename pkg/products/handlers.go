package products

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/lending/pkg/errcodes"
)

type handler struct {
	productService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := AddProductPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.productService.AddProduct(ctx, AddProductOptions{
		Name:       params.Name,
		SKU:        params.SKU,
		PriceCents: *params.PriceCents,
		Stock:      params.Stock,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("product added", logger.Data{"product_id": product.ID, "sku": product.SKU})

	return errors.WithStack(c.JSON(http.StatusCreated, product))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListProductsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	products, err := h.productService.ListProducts(ctx, ListProductsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, products))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Product")
	}

	product, err := h.productService.RetrieveProduct(ctx, RetrieveProductOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, product))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Product")
	}

	params := UpdateProductPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.productService.UpdateProductStock(ctx, id, *params.Stock)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, product))
}

func (h *handler) deleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Product")
	}

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("product deleted", logger.Data{"product_id": id})

	return c.NoContent(http.StatusNoContent)
}
