package domain

import (
	"testing"
	"time"

	"planillabus/internal/domain/models"
)

func weekdayProfile() models.FareProfile {
	return models.FareProfile{ID: 1, RouteID: 9, Weekdays: []int{1, 2, 3, 4, 5}, StartTime: "06:00", EndTime: "18:00", Price: 20000, Active: true}
}

func TestResolveFare_SingleMatchEveryDay(t *testing.T) {
	for day := 1; day <= 7; day++ {
		p := models.FareProfile{ID: int64(day), Weekdays: []int{day}, StartTime: "08:00", EndTime: "10:00", Price: 1000}
		other := models.FareProfile{ID: 100, Weekdays: []int{day}, StartTime: "11:00", EndTime: "12:00", Price: 2000}
		res := ResolveFare([]models.FareProfile{other, p}, day, 9*60)
		if !res.Matched() {
			t.Fatalf("day %d: expected match, got %s", day, res.Reason)
		}
		if res.Profile.ID != p.ID {
			t.Fatalf("day %d: got profile %d want %d", day, res.Profile.ID, p.ID)
		}
	}
}

func TestResolveFare_WindowBoundsInclusive(t *testing.T) {
	profiles := []models.FareProfile{weekdayProfile()}
	for _, minute := range []int{6 * 60, 18 * 60} {
		if res := ResolveFare(profiles, 2, minute); !res.Matched() {
			t.Fatalf("minute %d should match inclusive bound", minute)
		}
	}
	if res := ResolveFare(profiles, 2, 18*60+1); res.Reason != ResolveNoWindowMatch {
		t.Fatalf("18:01 should not match, got %s", res.Reason)
	}
}

func TestResolveFare_MidnightCrossing(t *testing.T) {
	night := models.FareProfile{ID: 7, Weekdays: []int{5, 6}, StartTime: "22:00", EndTime: "06:00", Price: 30000}
	profiles := []models.FareProfile{night}

	if res := ResolveFare(profiles, 5, 23*60+30); !res.Matched() {
		t.Fatalf("23:30 should match night window")
	}
	if res := ResolveFare(profiles, 5, 2*60); !res.Matched() {
		t.Fatalf("02:00 should match night window")
	}
	if res := ResolveFare(profiles, 5, 12*60); res.Matched() {
		t.Fatalf("12:00 should not match night window")
	}
	if res := ResolveFare(profiles, 1, 23*60+30); res.Matched() {
		t.Fatalf("monday is not in the weekday set")
	}
}

func TestResolveFare_EmptyListIsNoProfiles(t *testing.T) {
	for day := 1; day <= 7; day++ {
		res := ResolveFare(nil, day, 600)
		if res.Matched() || res.Reason != ResolveNoProfiles {
			t.Fatalf("expected no_profiles, got %+v", res)
		}
	}
}

func TestResolveFare_MalformedTimeSkipped(t *testing.T) {
	bad := models.FareProfile{ID: 1, Weekdays: []int{3}, StartTime: "seis", EndTime: "18:00", Price: 1}
	badEnd := models.FareProfile{ID: 2, Weekdays: []int{3}, StartTime: "06:00", EndTime: "25:00", Price: 2}
	good := models.FareProfile{ID: 3, Weekdays: []int{3}, StartTime: "06:00", EndTime: "18:00", Price: 3}

	res := ResolveFare([]models.FareProfile{bad, badEnd, good}, 3, 7*60)
	if !res.Matched() || res.Profile.ID != 3 {
		t.Fatalf("expected profile 3, got %+v", res)
	}
	res = ResolveFare([]models.FareProfile{bad, badEnd}, 3, 7*60)
	if res.Reason != ResolveNoWindowMatch {
		t.Fatalf("malformed profiles should be skipped, got %s", res.Reason)
	}
}

func TestResolveFare_OverlapFirstMatchWins(t *testing.T) {
	a := models.FareProfile{ID: 1, Weekdays: []int{1}, StartTime: "00:00", EndTime: "23:59", Price: 10}
	b := models.FareProfile{ID: 2, Weekdays: []int{1}, StartTime: "08:00", EndTime: "09:00", Price: 20}

	if res := ResolveFare([]models.FareProfile{a, b}, 1, 8*60+30); res.Profile.ID != 1 {
		t.Fatalf("expected first profile, got %d", res.Profile.ID)
	}
	if res := ResolveFare([]models.FareProfile{b, a}, 1, 8*60+30); res.Profile.ID != 2 {
		t.Fatalf("expected first profile after reorder, got %d", res.Profile.ID)
	}
}

func TestFareResolver_CustomTieBreak(t *testing.T) {
	a := models.FareProfile{ID: 1, Weekdays: []int{1}, StartTime: "00:00", EndTime: "23:59", Price: 10}
	b := models.FareProfile{ID: 2, Weekdays: []int{1}, StartTime: "08:00", EndTime: "09:00", Price: 20}
	cheapest := func(matches []models.FareProfile) models.FareProfile {
		best := matches[0]
		for _, m := range matches[1:] {
			if m.Price < best.Price {
				best = m
			}
		}
		return best
	}

	r := FareResolver{TieBreak: cheapest}
	if res := r.Resolve([]models.FareProfile{b, a}, 1, 8*60+30); res.Profile.ID != 1 {
		t.Fatalf("custom tie-break ignored, got %d", res.Profile.ID)
	}
	if res := r.Resolve([]models.FareProfile{b}, 2, 8*60); res.Reason != ResolveNoWindowMatch {
		t.Fatalf("expected no_window_match, got %s", res.Reason)
	}
}

func TestResolveAt_UsesISOWeekday(t *testing.T) {
	sunday := models.FareProfile{ID: 1, Weekdays: []int{7}, StartTime: "06:00", EndTime: "18:00", Price: 5}
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) // Sunday
	if res := (FareResolver{}).ResolveAt([]models.FareProfile{sunday}, at); !res.Matched() {
		t.Fatalf("sunday should map to weekday 7")
	}
}

func TestParseClock(t *testing.T) {
	cases := map[string]int{"06:00": 360, "6:05": 365, "23:59": 1439, "00:00": 0, "18:30:00": 1110}
	for in, want := range cases {
		got, ok := ParseClock(in)
		if !ok || got != want {
			t.Fatalf("ParseClock(%q) = %d,%v want %d", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "24:00", "12:60", "12", "ab:cd", "1:2:3:4", "123:00"} {
		if _, ok := ParseClock(in); ok {
			t.Fatalf("ParseClock(%q) should fail", in)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(9*60 + 5); got != "09:05" {
		t.Fatalf("FormatClock = %q", got)
	}
}
