package books

type AddBookPayload struct {
	Title    string `json:"title" mod:"trim" validate:"required,max=500"`
	Author   string `json:"author" mod:"trim" validate:"max=300"`
	Category string `json:"category" mod:"trim" validate:"max=100"`
	Stock    *int   `json:"stock,omitempty" default:"1" validate:"min=0"`
}

type ListBooksQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type UpdateBookPayload struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}
