package availability

// Entry is one weekly schedule row: a single interval on a single weekday,
// with the status that applies while the interval is active. Times are wall
// clock in the owning user's home zone. Entries with Start >= End are
// accepted as stored but describe an empty interval and never match.
type Entry struct {
	Day    Weekday
	Start  Minute
	End    Minute
	Status Status
}

// DefaultWindows is the per-user fallback availability: one window for
// weekdays and one for weekends, consulted only when no explicit entry exists
// for the day in question.
type DefaultWindows struct {
	WeekdayStart Minute
	WeekdayEnd   Minute
	WeekendStart Minute
	WeekendEnd   Minute
}

// Window returns the start and end of the window governing the given day.
func (w DefaultWindows) Window(day Weekday) (Minute, Minute) {
	if day.IsWeekend() {
		return w.WeekendStart, w.WeekendEnd
	}
	return w.WeekdayStart, w.WeekdayEnd
}

// ResolveStatus computes the current status for a user at a local wall-clock
// moment. entry is the user's schedule entry for the current local day, if
// any; def the user's default windows, if any.
//
// An entry whose interval covers the moment wins with its own status. Failing
// that, a default row yields green inside the governing window and red
// outside it. With neither, the second return is false and the caller must
// leave the user's stored status untouched.
func ResolveStatus(entry *Entry, def *DefaultWindows, day Weekday, now Minute) (Status, bool) {
	if entry != nil && entry.Day == day && within(entry.Start, entry.End, now) {
		return entry.Status, true
	}

	if def != nil {
		start, end := def.Window(day)
		if within(start, end, now) {
			return StatusGreen, true
		}
		return StatusRed, true
	}

	return StatusUnknown, false
}

// within implements the half-open interval match start <= now < end. The
// comparison is vacuously false for empty intervals (start >= end).
func within(start, end, now Minute) bool {
	return start <= now && now < end
}
