package persistence

import "time"

var weekdayDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
var weekendDays = []string{"saturday", "sunday"}

// SynthesizeDefaultEntries builds the seven green schedule entries a cleared
// schedule resets to: Mon-Fri from the weekday window, Sat-Sun from the
// weekend window. Shared by every ScheduleRepository implementation so the
// reset semantics cannot drift between stores.
func SynthesizeDefaultEntries(userID string, def DefaultAvailability, now time.Time) []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, 7)
	for _, day := range weekdayDays {
		entries = append(entries, ScheduleEntry{
			UserID:    userID,
			Day:       day,
			StartTime: def.WeekdayStart,
			EndTime:   def.WeekdayEnd,
			Status:    "green",
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	for _, day := range weekendDays {
		entries = append(entries, ScheduleEntry{
			UserID:    userID,
			Day:       day,
			StartTime: def.WeekendStart,
			EndTime:   def.WeekendEnd,
			Status:    "green",
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return entries
}
