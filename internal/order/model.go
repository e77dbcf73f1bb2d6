package order

import (
	"time"

	"github.com/akbarpress/printshop/internal/billing"
)

// Customer is stored as a JSONB blob on the order row; both fields are free
// text the way the counter staff type them.
type Customer struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// Order is the aggregate: customer, the two line-item categories and the
// derived money fields. Totals are never authoritative on their own; the
// billing engine recomputes them on every mutation before they are stored.
type Order struct {
	ID           string                `json:"id"`
	Customer     Customer              `json:"customer"`
	Digital      []billing.DigitalItem `json:"digital"`
	Offset       []billing.OffsetItem  `json:"offset"`
	TotalDigital float64               `json:"total_digital"`
	TotalOffset  float64               `json:"total_offset"`
	Total        float64               `json:"total"`
	Received     float64               `json:"received"`
	Remaining    float64               `json:"remaining"`
	IsDelivered  bool                  `json:"is_delivered"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// Recalculate runs the billing engine over the current item collections and
// received amount, refreshing every derived field in place.
func (o *Order) Recalculate() {
	o.Digital = billing.NormalizeDigital(o.Digital)
	o.Offset = billing.NormalizeOffset(o.Offset)
	t := billing.RecalculateTotals(o.Digital, o.Offset, o.Received)
	o.TotalDigital = t.TotalDigital
	o.TotalOffset = t.TotalOffset
	o.Total = t.Total
	o.Remaining = t.Remaining
}
