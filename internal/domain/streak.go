package domain

import "time"

// streakHorizonDays bounds the backward walk of the streak calculation.
const streakHorizonDays = 365

// Streak counts consecutive days with at least one recorded event,
// walking backward from today in the caller's timezone. A quiet today
// does not break the chain (it just isn't counted), but any gap on a
// prior day stops the walk.
func Streak(events []Event, tzOffsetMin int, now time.Time) int {
	if len(events) == 0 {
		return 0
	}

	offset := time.Duration(tzOffsetMin) * time.Minute
	active := make(map[string]struct{}, len(events))
	for _, e := range events {
		active[e.Timestamp.UTC().Add(offset).Format("2006-01-02")] = struct{}{}
	}

	streak := 0
	day := now.UTC().Add(offset)
	for i := 0; i < streakHorizonDays; i++ {
		if _, ok := active[day.Format("2006-01-02")]; ok {
			streak++
		} else if i > 0 {
			break
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
