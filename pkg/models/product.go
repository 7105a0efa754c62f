package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `bun:",nullzero" json:"name"`
	SKU        string    `bun:"sku,nullzero" json:"sku"`
	PriceCents int64     `bun:",notnull" json:"price_cents"`
	Stock      int       `bun:",notnull" json:"stock"`
}
