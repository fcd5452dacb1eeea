package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"planillabus/internal/domain/models"
)

type ResolveReason string

const (
	ResolveMatched       ResolveReason = "matched"
	ResolveNoProfiles    ResolveReason = "no_profiles"
	ResolveNoWindowMatch ResolveReason = "no_window_match"
)

// FareResolution is the resolver output. Profile is nil unless Reason is
// ResolveMatched.
type FareResolution struct {
	Profile *models.FareProfile `json:"perfil"`
	Reason  ResolveReason       `json:"motivo"`
}

func (r FareResolution) Matched() bool {
	return r.Reason == ResolveMatched && r.Profile != nil
}

// UnitPrice returns the matched price, or 0 with false.
func (r FareResolution) UnitPrice() (float64, bool) {
	if !r.Matched() {
		return 0, false
	}
	return r.Profile.Price, true
}

// TieBreak picks one profile among all matches, given in input order.
// matches is never empty.
type TieBreak func(matches []models.FareProfile) models.FareProfile

// FirstMatch keeps the first matching profile in iteration order. Overlapping
// windows are not ranked in any other way.
func FirstMatch(matches []models.FareProfile) models.FareProfile {
	return matches[0]
}

// FareResolver selects the fare profile that applies at a given moment.
// The zero value uses FirstMatch.
type FareResolver struct {
	TieBreak TieBreak
}

// Resolve matches profiles against an ISO weekday (1=Monday … 7=Sunday) and a
// minute of the day (0-1439).
func (r FareResolver) Resolve(profiles []models.FareProfile, weekday, minute int) FareResolution {
	if len(profiles) == 0 {
		return FareResolution{Reason: ResolveNoProfiles}
	}

	if r.TieBreak == nil {
		for i := range profiles {
			if ProfileMatches(profiles[i], weekday, minute) {
				p := profiles[i]
				return FareResolution{Profile: &p, Reason: ResolveMatched}
			}
		}
		return FareResolution{Reason: ResolveNoWindowMatch}
	}

	var matches []models.FareProfile
	for _, p := range profiles {
		if ProfileMatches(p, weekday, minute) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return FareResolution{Reason: ResolveNoWindowMatch}
	}
	p := r.TieBreak(matches)
	return FareResolution{Profile: &p, Reason: ResolveMatched}
}

// ResolveAt resolves against the weekday and wall-clock time of t.
func (r FareResolver) ResolveAt(profiles []models.FareProfile, t time.Time) FareResolution {
	return r.Resolve(profiles, ISOWeekday(t.Weekday()), MinuteOfDay(t))
}

// ResolveFare runs the default first-match resolver.
func ResolveFare(profiles []models.FareProfile, weekday, minute int) FareResolution {
	return FareResolver{}.Resolve(profiles, weekday, minute)
}

// ProfileMatches reports whether p applies on weekday at minute. A profile with
// an unparseable start or end never matches.
func ProfileMatches(p models.FareProfile, weekday, minute int) bool {
	if !p.HasWeekday(weekday) {
		return false
	}
	start, ok := ParseClock(p.StartTime)
	if !ok {
		return false
	}
	end, ok := ParseClock(p.EndTime)
	if !ok {
		return false
	}
	return WindowContains(start, end, minute)
}

// WindowContains checks minute against [start, end], both inclusive. When end
// is before start the window wraps past midnight.
func WindowContains(start, end, minute int) bool {
	if end < start {
		return minute >= start || minute <= end
	}
	return minute >= start && minute <= end
}

// ParseClock converts "HH:MM" (or "HH:MM:SS") into minutes since midnight.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, ok := clockField(parts[0], 23)
	if !ok {
		return 0, false
	}
	m, ok := clockField(parts[1], 59)
	if !ok {
		return 0, false
	}
	if len(parts) == 3 {
		if _, ok := clockField(parts[2], 59); !ok {
			return 0, false
		}
	}
	return h*60 + m, true
}

func clockField(s string, max int) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > max {
		return 0, false
	}
	return n, true
}

// ISOWeekday maps time.Weekday (Sunday=0) onto 1=Monday … 7=Sunday.
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
