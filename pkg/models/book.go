package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DefaultBookStock is the number of copies a book starts with when none is
// given.
const DefaultBookStock = 1

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",nullzero" json:"title"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Stock     int       `bun:",notnull" json:"stock"`
}
