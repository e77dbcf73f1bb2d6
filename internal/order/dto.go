package order

import "github.com/akbarpress/printshop/internal/billing"

// CreateOrderRequest is the bill form as submitted. Client-side totals are
// ignored; the server recomputes everything.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Customer Customer              `json:"customer"`
	Digital  []billing.DigitalItem `json:"digital"`
	Offset   []billing.OffsetItem  `json:"offset"`
	Received billing.Number        `json:"received"`
}

// UpdateOrderRequest is a partial update. Item arrays use pointers so an
// absent category means "leave it alone" while an explicit empty array
// clears it.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	Customer *Customer              `json:"customer"`
	Digital  *[]billing.DigitalItem `json:"digital"`
	Offset   *[]billing.OffsetItem  `json:"offset"`
	Received *billing.Number        `json:"received"`
}

// SetDeliveredRequest toggles the pickup flag.
// swagger:model SetDeliveredRequest
type SetDeliveredRequest struct {
	IsDelivered bool `json:"is_delivered"`
}

// ListResponse is the paginated orders listing.
// swagger:model
type ListResponse struct {
	Q      string  `json:"q,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Total  int     `json:"total"`
	Orders []Order `json:"orders"`
}

// HTTPError is the standard JSON error body.
// swagger:model
type HTTPError struct {
	Error string `json:"error"`
}
