package billing

import (
	"encoding/json"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestRecomputeDigitalItem_AreaAndMoney(t *testing.T) {
	// 2 banners of 50x70 at 2 per unit of area
	var it DigitalItem
	it = RecomputeDigitalItem(it, FieldQuantity, "2")
	it = RecomputeDigitalItem(it, FieldHeight, "50")
	it = RecomputeDigitalItem(it, FieldWidth, "70")
	it = RecomputeDigitalItem(it, FieldUnitPrice, "2")

	if !near(float64(it.Area), 7000) {
		t.Fatalf("area=%v, expected 7000", it.Area)
	}
	if !near(float64(it.Money), 14000) {
		t.Fatalf("money=%v, expected 14000", it.Money)
	}
	if it.MoneyOverridden {
		t.Fatalf("money should not be flagged as overridden")
	}
}

func TestRecomputeDigitalItem_MalformedInputCoercesToZero(t *testing.T) {
	it := DigitalItem{Quantity: 2, Height: 50, Width: 70, UnitPrice: 2, Area: 7000, Money: 14000}

	it = RecomputeDigitalItem(it, FieldHeight, "abc")
	if it.Height != 0 {
		t.Fatalf("height=%v, expected 0 for malformed input", it.Height)
	}
	if it.Area != 0 || it.Money != 0 {
		t.Fatalf("area=%v money=%v, expected both 0", it.Area, it.Money)
	}

	it = RecomputeDigitalItem(it, FieldHeight, "")
	if it.Height != 0 {
		t.Fatalf("empty input must coerce to 0, got %v", it.Height)
	}
}

func TestRecomputeDigitalItem_NonFiniteInputCoercesToZero(t *testing.T) {
	// ParseFloat accepts these, but they must not survive into the item:
	// a NaN quantity would make the whole order unserializable
	for _, input := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity"} {
		it := DigitalItem{Quantity: 2, Height: 50, Width: 70, UnitPrice: 2, Area: 7000, Money: 14000}
		it = RecomputeDigitalItem(it, FieldQuantity, input)
		if it.Quantity != 0 {
			t.Fatalf("quantity=%v for input %q, expected 0", it.Quantity, input)
		}
		if it.Area != 0 || it.Money != 0 {
			t.Fatalf("area=%v money=%v for input %q, expected both 0", it.Area, it.Money, input)
		}
		if b, err := json.Marshal(it); err != nil {
			t.Fatalf("item not serializable after input %q: %v (%s)", input, err, b)
		}
	}

	var it DigitalItem
	if err := json.Unmarshal([]byte(`{"quantity":"NaN","height":"-Inf"}`), &it); err != nil {
		t.Fatalf("permissive decode must not fail: %v", err)
	}
	if it.Quantity != 0 || it.Height != 0 {
		t.Fatalf("non-finite wire input must decode to 0: %+v", it)
	}
}

func TestRecomputeDigitalItem_MoneyOverride(t *testing.T) {
	it := DigitalItem{Quantity: 2, Height: 50, Width: 70, UnitPrice: 2, Area: 7000, Money: 14000}

	// direct money edit sticks
	it = RecomputeDigitalItem(it, FieldMoney, "9999")
	if !near(float64(it.Money), 9999) {
		t.Fatalf("money=%v, expected 9999 after override", it.Money)
	}
	if !it.MoneyOverridden {
		t.Fatalf("override flag not set")
	}
	// area stays consistent with the dimensions
	if !near(float64(it.Area), 7000) {
		t.Fatalf("area=%v, expected 7000", it.Area)
	}

	// a later dependent-field edit recomputes money and drops the override
	it = RecomputeDigitalItem(it, FieldQuantity, "3")
	if !near(float64(it.Area), 10500) {
		t.Fatalf("area=%v, expected 10500", it.Area)
	}
	if !near(float64(it.Money), 21000) {
		t.Fatalf("money=%v, expected 21000 after recompute", it.Money)
	}
	if it.MoneyOverridden {
		t.Fatalf("override flag should clear once a dependent field changes")
	}
}

func TestRecomputeOffsetItem(t *testing.T) {
	var it OffsetItem
	it = RecomputeOffsetItem(it, FieldQuantity, "500")
	it = RecomputeOffsetItem(it, FieldUnitPrice, "3")
	if !near(float64(it.Money), 1500) {
		t.Fatalf("money=%v, expected 1500", it.Money)
	}

	it = RecomputeOffsetItem(it, FieldMoney, "1200")
	if !near(float64(it.Money), 1200) || !it.MoneyOverridden {
		t.Fatalf("override not applied: money=%v overridden=%v", it.Money, it.MoneyOverridden)
	}
	it = RecomputeOffsetItem(it, FieldUnitPrice, "4")
	if !near(float64(it.Money), 2000) || it.MoneyOverridden {
		t.Fatalf("recompute after override failed: money=%v overridden=%v", it.Money, it.MoneyOverridden)
	}
}

func TestRecalculateTotals(t *testing.T) {
	digital := []DigitalItem{{Name: "banner", Quantity: 2, Height: 50, Width: 70, UnitPrice: 2, Area: 7000, Money: 14000}}
	offset := []OffsetItem{{Name: "cards", Quantity: 500, UnitPrice: 3, Money: 1500}}

	got := RecalculateTotals(digital, offset, 10000)
	if !near(got.TotalDigital, 14000) || !near(got.TotalOffset, 1500) {
		t.Fatalf("subtotals=%v/%v, expected 14000/1500", got.TotalDigital, got.TotalOffset)
	}
	if !near(got.Total, 15500) {
		t.Fatalf("total=%v, expected 15500", got.Total)
	}
	if !near(got.Remaining, 5500) {
		t.Fatalf("remaining=%v, expected 5500", got.Remaining)
	}

	// idempotent: same inputs, same outputs
	again := RecalculateTotals(digital, offset, 10000)
	if got != again {
		t.Fatalf("not idempotent: %+v vs %+v", got, again)
	}
}

func TestRecalculateTotals_OverriddenMoneyFeedsTotals(t *testing.T) {
	it := DigitalItem{Quantity: 2, Height: 50, Width: 70, UnitPrice: 2, Area: 7000, Money: 14000}
	it = RecomputeDigitalItem(it, FieldMoney, "9999")

	got := RecalculateTotals([]DigitalItem{it}, []OffsetItem{{Quantity: 500, UnitPrice: 3, Money: 1500}}, 0)
	if !near(got.Total, 11499) {
		t.Fatalf("total=%v, expected 11499", got.Total)
	}
}

func TestRecalculateTotals_Overpayment(t *testing.T) {
	got := RecalculateTotals(nil, []OffsetItem{{Quantity: 10, UnitPrice: 5, Money: 50}}, 80)
	if !near(got.Remaining, -30) {
		t.Fatalf("remaining=%v, expected -30 (overpaid)", got.Remaining)
	}
}

func TestRenderableFilters(t *testing.T) {
	digital := []DigitalItem{
		{Name: "banner", Money: 100},
		{},                                       // fully blank: hidden
		{Name: "  "},                             // whitespace name: hidden
		{Quantity: 5, UnitPrice: 2, Money: 10},   // unnamed but priced: shown
		{Quantity: 5},                            // quantity without price: hidden
	}
	got := RenderableDigital(digital)
	if len(got) != 2 {
		t.Fatalf("renderable len=%d, expected 2: %+v", len(got), got)
	}
	if got[0].Name != "banner" || got[1].Quantity != 5 {
		t.Fatalf("filter broke ordering: %+v", got)
	}

	offset := []OffsetItem{{}, {Name: "cards"}, {Quantity: 1, Money: 3}}
	if len(RenderableOffset(offset)) != 2 {
		t.Fatalf("offset filter wrong: %+v", RenderableOffset(offset))
	}

	// a hidden row still contributes (zero) to totals
	totals := RecalculateTotals(digital, nil, 0)
	if !near(totals.TotalDigital, 110) {
		t.Fatalf("totals over full collection=%v, expected 110", totals.TotalDigital)
	}
}

func TestDeleteAt(t *testing.T) {
	items := []OffsetItem{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	got := DeleteOffsetAt(items, 1)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("delete broke ordering: %+v", got)
	}
	if len(items) != 3 {
		t.Fatalf("input slice mutated")
	}
	if len(DeleteOffsetAt(items, 5)) != 3 || len(DeleteOffsetAt(items, -1)) != 3 {
		t.Fatalf("out-of-range delete must be a no-op")
	}

	dig := []DigitalItem{{Name: "x"}, {Name: "y"}}
	if got := DeleteDigitalAt(dig, 0); len(got) != 1 || got[0].Name != "y" {
		t.Fatalf("digital delete wrong: %+v", got)
	}
}

func TestNumber_PermissiveDecode(t *testing.T) {
	var it DigitalItem
	// the bill form sends numbers as strings, sometimes blank
	raw := `{"name":"poster","quantity":"2","height":"50","width":"70","unit_price":"bogus","money":""}`
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("permissive decode must not fail: %v", err)
	}
	if it.Quantity != 2 || it.Height != 50 || it.Width != 70 {
		t.Fatalf("decoded values wrong: %+v", it)
	}
	if it.UnitPrice != 0 || it.Money != 0 {
		t.Fatalf("malformed input must decode to 0: %+v", it)
	}

	b, err := json.Marshal(Number(12.5))
	if err != nil || string(b) != "12.5" {
		t.Fatalf("marshal: %s %v", b, err)
	}
}
