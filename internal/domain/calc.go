package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseAmount reads a raw form value as a number. Empty strings, non-numeric
// text, NaN and infinities are not amounts.
func ParseAmount(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// TicketTotal computes seats × unit price with no rounding.
func TicketTotal(seats int, unitPrice float64) float64 {
	return float64(seats) * unitPrice
}

// RecomputeTotal derives the total from raw seat and price inputs. When either
// input is not numeric the previous total is kept and ok is false.
func RecomputeTotal(prev float64, seats, unitPrice any) (total float64, ok bool) {
	s, ok := ParseAmount(seats)
	if !ok {
		return prev, false
	}
	p, ok := ParseAmount(unitPrice)
	if !ok {
		return prev, false
	}
	t := s * p
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return prev, false
	}
	return t, true
}
