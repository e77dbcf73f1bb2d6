package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akbarpress/printshop/internal/billing"
)

// Invoice is the printable view of an order: only the rows the operator
// actually filled in, with amounts formatted for display. Totals come from
// the order's stored derived fields, not from re-summing the filtered rows.
// swagger:model
type Invoice struct {
	BillNumber   string                `json:"bill_number"`
	BillDate     string                `json:"bill_date"`
	Customer     Customer              `json:"customer"`
	Digital      []billing.DigitalItem `json:"digital"`
	Offset       []billing.OffsetItem  `json:"offset"`
	TotalDigital string                `json:"total_digital"`
	TotalOffset  string                `json:"total_offset"`
	Total        string                `json:"total"`
	Received     string                `json:"received"`
	Remaining    string                `json:"remaining"`
}

// FormatAmount renders a money value with two decimals for the bill.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// billNumber mints a short human-readable reference for the printed bill,
// e.g. ORD-4F7A2C.
func billNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// NewInvoice builds the printable representation of an order.
func NewInvoice(o *Order, now time.Time) Invoice {
	return Invoice{
		BillNumber:   billNumber(),
		BillDate:     now.Format("2006-01-02"),
		Customer:     o.Customer,
		Digital:      billing.RenderableDigital(o.Digital),
		Offset:       billing.RenderableOffset(o.Offset),
		TotalDigital: FormatAmount(o.TotalDigital),
		TotalOffset:  FormatAmount(o.TotalOffset),
		Total:        FormatAmount(o.Total),
		Received:     FormatAmount(o.Received),
		Remaining:    FormatAmount(o.Remaining),
	}
}
