package reports

type OverdueQuery struct {
	Days *int    `query:"days" json:"days,omitempty" validate:"omitempty,min=0"`
	AsOf *string `query:"as_of" json:"as_of,omitempty" validate:"omitempty,date"`
}

type MostBorrowedQuery struct {
	Limit *int `query:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
}
