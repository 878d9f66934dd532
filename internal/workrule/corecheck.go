package workrule

import (
	"fmt"
	"time"
)

// CoreCheck is the outcome of the core-time policy evaluation for a clock-in.
// A disallowed day is a business rejection, not an error: the caller reports
// it as a success-shaped response with Allowed=false.
type CoreCheck struct {
	Allowed bool
	Warning string
}

// EvaluateCoreTime applies the work rule for the moment of a clock-in attempt.
// A missing rule is permissive: allowed, no warning. A disallowed day rejects.
// A core_start earlier than the current time-of-day allows the stamp but
// attaches a warning. core_end is informational and never enforced.
func EvaluateCoreTime(rule *WorkRule, now time.Time) CoreCheck {
	if rule == nil {
		return CoreCheck{Allowed: true}
	}

	if !rule.WorkAllowed {
		return CoreCheck{Allowed: false, Warning: "Working is not allowed on this day"}
	}

	if rule.CoreStart != nil {
		coreStart := *rule.CoreStart
		if len(coreStart) > 8 {
			coreStart = coreStart[:8]
		}
		currentTime := now.Format("15:04:05")
		if coreStart != "" && currentTime > coreStart {
			display := coreStart
			if len(display) > 5 {
				display = display[:5]
			}
			return CoreCheck{
				Allowed: true,
				Warning: fmt.Sprintf("Core time started at %s", display),
			}
		}
	}

	return CoreCheck{Allowed: true}
}
