package products

type AddProductPayload struct {
	Name       string `json:"name" mod:"trim" validate:"required,max=300"`
	SKU        string `json:"sku" mod:"trim" validate:"required,max=64,sku"`
	PriceCents *int64 `json:"price_cents" validate:"required,min=0"`
	Stock      int    `json:"stock" validate:"min=0"`
}

type ListProductsQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type UpdateProductPayload struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}
