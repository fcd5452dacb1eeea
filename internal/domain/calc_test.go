package domain

import (
	"encoding/json"
	"testing"
)

func TestRecomputeTotal(t *testing.T) {
	total, ok := RecomputeTotal(0, 3, 1500.0)
	if !ok || total != 4500.0 {
		t.Fatalf("expected 4500, got %v (%v)", total, ok)
	}

	total, ok = RecomputeTotal(total, "4", "1500")
	if !ok || total != 6000.0 {
		t.Fatalf("expected 6000, got %v (%v)", total, ok)
	}

	total, ok = RecomputeTotal(total, 4, "mil")
	if ok || total != 6000.0 {
		t.Fatalf("non numeric price must keep previous total, got %v (%v)", total, ok)
	}

	total, ok = RecomputeTotal(total, "", 1500.0)
	if ok || total != 6000.0 {
		t.Fatalf("empty seats must keep previous total, got %v (%v)", total, ok)
	}
}

func TestRecomputeTotal_KeepsFloatPrecision(t *testing.T) {
	total, ok := RecomputeTotal(0, 3, 0.1)
	if !ok {
		t.Fatalf("expected recompute")
	}
	if total != 3*0.1 {
		t.Fatalf("total should be the raw product, got %v", total)
	}
}

func TestParseAmount(t *testing.T) {
	if v, ok := ParseAmount(json.Number("20000")); !ok || v != 20000 {
		t.Fatalf("json.Number not parsed: %v %v", v, ok)
	}
	if _, ok := ParseAmount("NaN"); ok {
		t.Fatalf("NaN is not an amount")
	}
	if _, ok := ParseAmount(true); ok {
		t.Fatalf("bool is not an amount")
	}
	if v, ok := ParseAmount(" 12.5 "); !ok || v != 12.5 {
		t.Fatalf("trimmed string not parsed: %v %v", v, ok)
	}
}
