package billing

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Number is a monetary/quantity value entered by an operator. Malformed or
// empty input decodes to 0 instead of failing: the bill form is free-form
// data entry and must never reject a keystroke.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	*n = Number(parseAmount(s))
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
}

// parseAmount coerces operator input to a float, treating anything
// unparseable (including "null" and "") as 0. ParseFloat also accepts
// "NaN" and "Inf", which are useless as money and would poison every
// derived field downstream, so non-finite values coerce to 0 too.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
