package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BorrowRecord is a single lending of a book to a member. A nil ReturnedAt
// means the book is still out.
type BorrowRecord struct {
	bun.BaseModel `bun:"table:borrow_records,alias:br"`

	ID         int        `bun:",pk,nullzero" json:"id"`
	MemberID   int        `bun:",nullzero" json:"member_id"`
	Member     *Member    `bun:"rel:belongs-to,join:member_id=id" json:"member,omitempty"`
	BookID     int        `bun:",nullzero" json:"book_id"`
	Book       *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

func (r *BorrowRecord) IsOpen() bool {
	return r.ReturnedAt == nil
}
