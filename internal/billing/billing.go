// Package billing owns every rule that derives money fields on a print
// order: item area and money, per-category subtotals, grand total and the
// remaining balance against the received amount. It is pure computation; the
// HTTP handlers and the repository call into it after every mutation so the
// stored derived values can never drift from the raw inputs.
package billing

import "strings"

// Field names an editable line-item field for the recompute operations.
type Field string

const (
	FieldName      Field = "name"
	FieldQuantity  Field = "quantity"
	FieldHeight    Field = "height"
	FieldWidth     Field = "width"
	FieldUnitPrice Field = "unit_price"
	FieldMoney     Field = "money"
)

// DigitalItem is a digital-printing row: priced by physical area
// (height * width * quantity).
type DigitalItem struct {
	Name            string `json:"name"`
	Quantity        Number `json:"quantity"`
	Height          Number `json:"height"`
	Width           Number `json:"width"`
	UnitPrice       Number `json:"unit_price"`
	Area            Number `json:"area"`
	Money           Number `json:"money"`
	MoneyOverridden bool   `json:"money_overridden,omitempty"`
}

// OffsetItem is an offset-printing row: priced by flat quantity * unit price.
type OffsetItem struct {
	Name            string `json:"name"`
	Quantity        Number `json:"quantity"`
	UnitPrice       Number `json:"unit_price"`
	Money           Number `json:"money"`
	MoneyOverridden bool   `json:"money_overridden,omitempty"`
}

// Totals is the full set of derived order-level amounts.
type Totals struct {
	TotalDigital float64
	TotalOffset  float64
	Total        float64
	Remaining    float64
}

// RecomputeDigitalItem applies one field edit to a digital item and returns
// the item with its derived fields consistent again. Area always follows the
// three dimension inputs. Money follows unit_price*area unless this edit
// targets money itself, in which case the typed value is kept and flagged as
// an override; any later edit to a dependent field clears the override.
func RecomputeDigitalItem(item DigitalItem, field Field, value string) DigitalItem {
	switch field {
	case FieldName:
		item.Name = value
	case FieldQuantity:
		item.Quantity = Number(parseAmount(value))
	case FieldHeight:
		item.Height = Number(parseAmount(value))
	case FieldWidth:
		item.Width = Number(parseAmount(value))
	case FieldUnitPrice:
		item.UnitPrice = Number(parseAmount(value))
	case FieldMoney:
		item.Money = Number(parseAmount(value))
	}

	item.Area = item.Height * item.Width * item.Quantity

	if field == FieldMoney {
		item.MoneyOverridden = true
	} else {
		item.Money = item.UnitPrice * item.Area
		item.MoneyOverridden = false
	}
	return item
}

// RecomputeOffsetItem is the offset counterpart: money = unit_price*quantity,
// no area, same money-override rule.
func RecomputeOffsetItem(item OffsetItem, field Field, value string) OffsetItem {
	switch field {
	case FieldName:
		item.Name = value
	case FieldQuantity:
		item.Quantity = Number(parseAmount(value))
	case FieldUnitPrice:
		item.UnitPrice = Number(parseAmount(value))
	case FieldMoney:
		item.Money = Number(parseAmount(value))
	}

	if field == FieldMoney {
		item.MoneyOverridden = true
	} else {
		item.Money = item.UnitPrice * item.Quantity
		item.MoneyOverridden = false
	}
	return item
}

// NormalizeDigital re-derives area and, unless overridden, money for every
// item. Run on collections arriving over the wire so stored rows never keep
// client-supplied derived values.
func NormalizeDigital(items []DigitalItem) []DigitalItem {
	out := make([]DigitalItem, len(items))
	for i, it := range items {
		it.Area = it.Height * it.Width * it.Quantity
		if !it.MoneyOverridden {
			it.Money = it.UnitPrice * it.Area
		}
		out[i] = it
	}
	return out
}

// NormalizeOffset is the offset counterpart of NormalizeDigital.
func NormalizeOffset(items []OffsetItem) []OffsetItem {
	out := make([]OffsetItem, len(items))
	for i, it := range items {
		if !it.MoneyOverridden {
			it.Money = it.UnitPrice * it.Quantity
		}
		out[i] = it
	}
	return out
}

// RecalculateTotals sums item money per category and derives the grand total
// and remaining balance. Idempotent; remaining may go negative when the
// customer overpays.
func RecalculateTotals(digital []DigitalItem, offset []OffsetItem, received float64) Totals {
	var t Totals
	for _, it := range digital {
		t.TotalDigital += float64(it.Money)
	}
	for _, it := range offset {
		t.TotalOffset += float64(it.Money)
	}
	t.Total = t.TotalDigital + t.TotalOffset
	t.Remaining = t.Total - received
	return t
}

// A row is renderable on a printed bill when the operator actually filled it
// in: a non-blank name, or a positive quantity with a positive price or money.
// Filtering is display-only; totals always run over the full collections.

func digitalRenderable(it DigitalItem) bool {
	return strings.TrimSpace(it.Name) != "" ||
		(it.Quantity > 0 && (it.UnitPrice > 0 || it.Money > 0))
}

func offsetRenderable(it OffsetItem) bool {
	return strings.TrimSpace(it.Name) != "" ||
		(it.Quantity > 0 && (it.UnitPrice > 0 || it.Money > 0))
}

// RenderableDigital returns the digital rows worth printing, in order.
func RenderableDigital(items []DigitalItem) []DigitalItem {
	out := make([]DigitalItem, 0, len(items))
	for _, it := range items {
		if digitalRenderable(it) {
			out = append(out, it)
		}
	}
	return out
}

// RenderableOffset returns the offset rows worth printing, in order.
func RenderableOffset(items []OffsetItem) []OffsetItem {
	out := make([]OffsetItem, 0, len(items))
	for _, it := range items {
		if offsetRenderable(it) {
			out = append(out, it)
		}
	}
	return out
}

// DeleteDigitalAt removes the item at index i, keeping the rest in order.
// Out-of-range indices are a no-op.
func DeleteDigitalAt(items []DigitalItem, i int) []DigitalItem {
	if i < 0 || i >= len(items) {
		return items
	}
	out := make([]DigitalItem, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// DeleteOffsetAt removes the item at index i, keeping the rest in order.
func DeleteOffsetAt(items []OffsetItem, i int) []OffsetItem {
	if i < 0 || i >= len(items) {
		return items
	}
	out := make([]OffsetItem, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
