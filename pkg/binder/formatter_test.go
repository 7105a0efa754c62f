package binder

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockForm struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

type pageForm struct {
	Limit int `json:"limit" validate:"min=1,max=500"`
}

type bookForm struct {
	Title string `json:"title" validate:"required,max=500"`
}

type invoiceLineForm struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
	Quantity  int `json:"quantity" validate:"required,min=1"`
}

type invoiceForm struct {
	Lines           []invoiceLineForm `json:"lines" validate:"required,min=1,dive"`
	DiscountPercent float64           `json:"discount_percent" validate:"min=0,max=100"`
	GSTPercent      *float64          `json:"gst_percent" validate:"omitempty,min=0"`
}

type reportForm struct {
	AsOf string `json:"as_of" validate:"omitempty,date"`
}

type productForm struct {
	SKU string `json:"sku" validate:"required,max=64,sku"`
}

type receiptForm struct {
	Number string `json:"number" validate:"uuid"`
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func oneLine() []invoiceLineForm { return []invoiceLineForm{{ProductID: 1, Quantity: 1}} }

func TestFormatValidationError(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	cases := []struct {
		name string
		form interface{}
		msg  string
	}{
		{"missing stock", &stockForm{}, `"stock" is required`},
		{"negative stock", &stockForm{Stock: intPtr(-1)}, `"stock" must be greater than or equal to 0`},
		{"zero limit", &pageForm{Limit: 0}, `"limit" must be greater than or equal to 1`},
		{"limit too large", &pageForm{Limit: 501}, `"limit" must be less than or equal to 500`},
		{"missing title", &bookForm{}, `"title" is required`},
		{"long title", &bookForm{Title: strings.Repeat("x", 501)}, `"title" length must be less than or equal to 500 characters`},
		{"no invoice lines", &invoiceForm{Lines: []invoiceLineForm{}}, `"lines" length must be greater than or equal to 1 element`},
		{"zero quantity", &invoiceForm{Lines: []invoiceLineForm{{ProductID: 1}}}, `"quantity" is required`},
		{"discount above 100", &invoiceForm{Lines: oneLine(), DiscountPercent: 120}, `"discount_percent" must be less than or equal to 100`},
		{"negative discount", &invoiceForm{Lines: oneLine(), DiscountPercent: -5}, `"discount_percent" must be greater than or equal to 0`},
		{"negative gst", &invoiceForm{Lines: oneLine(), GSTPercent: floatPtr(-1)}, `"gst_percent" must be greater than or equal to 0`},
		{"bad report date", &reportForm{AsOf: "2026-13-01"}, `"as_of" should be in the format of YYYY-MM-DD`},
		{"bad sku", &productForm{SKU: "bad sku"}, `"sku" may only contain letters, digits, and dashes`},
		{"unmapped tag", &receiptForm{Number: "INV-1"}, `"number" failed the "uuid" check`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := b.validate.Struct(tc.form)
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			require.NotEmpty(t, errs)
			assert.Equal(t, tc.msg, formatValidationError(errs[0]))
		})
	}
}

func TestFormatTypeErrors(t *testing.T) {
	t.Parallel()

	msg := formatUnmarshalTypeError(&json.UnmarshalTypeError{Field: "price_cents", Type: reflect.TypeOf(int64(0))})
	assert.Equal(t, `"price_cents" should be of type int64`, msg)

	msg = formatSchemaConversionError(schema.ConversionError{Key: "member_id", Type: reflect.TypeOf(0)})
	assert.Equal(t, `"member_id" should be of type int`, msg)
}
