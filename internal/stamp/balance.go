package stamp

import (
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/workrule"
)

// DaySummary is the result of pairing one user's events over an interval.
type DaySummary struct {
	// Minutes worked across closed in/out pairs, each pair floored to whole
	// minutes before summing.
	Minutes int

	// OpenSince is set when the interval ends on an unmatched "in". The open
	// session counts toward the live view only, never toward period balances.
	OpenSince *time.Time

	// Anomalies counts positional pairs that were not (in, out). The ledger
	// is append-only so anomalies are surfaced, not repaired.
	Anomalies int
}

// Summarize pairs events positionally: (0,1), (2,3) and so on. A pair
// contributes only when it reads (in, out). Events must be sorted by
// stamp time ascending.
func Summarize(events []StampEvent) DaySummary {
	var s DaySummary

	for i := 0; i+1 < len(events); i += 2 {
		if events[i].Type == TypeIn && events[i+1].Type == TypeOut {
			s.Minutes += int(events[i+1].StampTime.Sub(events[i].StampTime) / time.Minute)
		} else {
			s.Anomalies++
		}
	}

	if len(events)%2 == 1 {
		last := events[len(events)-1]
		if last.Type == TypeIn {
			t := last.StampTime
			s.OpenSince = &t
		} else {
			s.Anomalies++
		}
	}

	return s
}

// LiveMinutes extends a summary with the running open session, clamped at
// zero in case of clock skew between the stamp and now.
func LiveMinutes(s DaySummary, now time.Time) int {
	minutes := s.Minutes
	if s.OpenSince != nil {
		open := int(now.Sub(*s.OpenSince) / time.Minute)
		if open > 0 {
			minutes += open
		}
	}
	return minutes
}

// ExpectedMinutes sums the daily targets over [from, to], never counting
// days after today: future days carry no expectation yet. Days without a
// rule, or with work disallowed, expect zero.
func ExpectedMinutes(rules []workrule.WorkRule, from, to, today time.Time) int {
	byWeekday := make(map[int]workrule.WorkRule, len(rules))
	for _, r := range rules {
		byWeekday[r.Weekday] = r
	}

	end := to
	if today.Before(end) {
		end = today
	}

	expected := 0
	for d := from; !d.After(end); d = d.AddDate(0, 0, 1) {
		rule, ok := byWeekday[domain.WeekdayIndex(d)]
		if ok && rule.WorkAllowed {
			expected += rule.MaxDailyMinutes
		}
	}
	return expected
}
