package loans

type LoanPayload struct {
	MemberID int `json:"member_id" validate:"required,min=1"`
	BookID   int `json:"book_id" validate:"required,min=1"`
}

type ListBorrowRecordsQuery struct {
	MemberID *int `query:"member_id" json:"member_id,omitempty" validate:"omitempty,min=1"`
	BookID   *int `query:"book_id" json:"book_id,omitempty" validate:"omitempty,min=1"`
	Open     bool `query:"open" json:"open,omitempty"`
	Limit    int  `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset   int  `query:"offset" json:"offset,omitempty" validate:"min=0"`
}
