package invoices

type LinePayload struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
	Quantity  int `json:"quantity" validate:"required,min=1"`
}

type GenerateInvoicePayload struct {
	Lines           []LinePayload `json:"lines" validate:"required,min=1,dive"`
	DiscountPercent float64       `json:"discount_percent" validate:"min=0,max=100"`
	GSTPercent      *float64      `json:"gst_percent,omitempty" validate:"omitempty,min=0"`
}
