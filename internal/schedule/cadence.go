package schedule

// Cadence tags recognized in a machine's maintenance schedule.
const (
	CadenceDaily        = "daily"
	CadenceWeekly       = "weekly"
	CadenceMonthly      = "monthly"
	CadenceQuarterly    = "quarterly"
	CadenceSemiAnnually = "semi-annually"
	CadenceAnnually     = "annually"
)

var cadenceDays = map[string]int{
	CadenceDaily:        1,
	CadenceWeekly:       7,
	CadenceMonthly:      30,
	CadenceQuarterly:    90,
	CadenceSemiAnnually: 180,
	CadenceAnnually:     365,
}

// CadenceDays maps a cadence tag to its fixed duration in days. Unknown tags
// report ok=false; callers decide the fallback, nothing panics here.
func CadenceDays(tag string) (int, bool) {
	days, ok := cadenceDays[tag]
	return days, ok
}

// KnownCadences returns every recognized cadence tag, shortest first.
func KnownCadences() []string {
	return []string{
		CadenceDaily,
		CadenceWeekly,
		CadenceMonthly,
		CadenceQuarterly,
		CadenceSemiAnnually,
		CadenceAnnually,
	}
}
