package order

import (
	"strings"
	"testing"
	"time"

	"github.com/akbarpress/printshop/internal/billing"
)

func TestNewInvoice_FiltersEmptyRowsAndFormats(t *testing.T) {
	o := &Order{
		Customer: Customer{Name: "Ahmad", PhoneNumber: "0799000000"},
		Digital: []billing.DigitalItem{
			{Name: "banner", Quantity: 2, Height: 50, Width: 70, UnitPrice: 2, Area: 7000, Money: 14000},
			{}, // blank row left over from the form
		},
		Offset: []billing.OffsetItem{
			{Name: "cards", Quantity: 500, UnitPrice: 3, Money: 1500},
		},
	}
	o.Received = 10000
	o.Recalculate()

	inv := NewInvoice(o, time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))

	if len(inv.Digital) != 1 || len(inv.Offset) != 1 {
		t.Fatalf("blank rows must not print: %d/%d", len(inv.Digital), len(inv.Offset))
	}
	if inv.Total != "15500.00" || inv.Remaining != "5500.00" {
		t.Fatalf("formatted totals wrong: total=%s remaining=%s", inv.Total, inv.Remaining)
	}
	if inv.BillDate != "2025-03-14" {
		t.Fatalf("bill date=%s", inv.BillDate)
	}
	if !strings.HasPrefix(inv.BillNumber, "ORD-") || len(inv.BillNumber) != 10 {
		t.Fatalf("bill number=%s", inv.BillNumber)
	}
	if inv.BillNumber != strings.ToUpper(inv.BillNumber) {
		t.Fatalf("bill number must be upper case: %s", inv.BillNumber)
	}
}

func TestOrderRecalculate_BlankRowStillCountsAsZero(t *testing.T) {
	o := &Order{
		Digital:  []billing.DigitalItem{{}},
		Offset:   []billing.OffsetItem{{Quantity: 10, UnitPrice: 2}},
		Received: 5,
	}
	o.Recalculate()
	if o.Total != 20 || o.Remaining != 15 {
		t.Fatalf("total=%v remaining=%v", o.Total, o.Remaining)
	}

	// running it again changes nothing
	o.Recalculate()
	if o.Total != 20 || o.Remaining != 15 {
		t.Fatalf("recalculate must be idempotent: total=%v remaining=%v", o.Total, o.Remaining)
	}
}
