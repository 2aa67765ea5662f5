// Package schedule expands the weekly class timetable into dated
// occurrences for calendar views.
package schedule

import (
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

// Expand produces one occurrence per class per matching weekday between
// from and to inclusive. Classes with an unparseable start time are skipped.
// Results are ordered chronologically.
func Expand(classes []model.Class, from, to time.Time) []model.ClassOccurrence {
	var out []model.ClassOccurrence

	from = truncateToDay(from)
	to = truncateToDay(to)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, c := range classes {
			if int(day.Weekday()) != c.Weekday {
				continue
			}
			hour, minute, err := parseStartTime(c.StartTime)
			if err != nil {
				continue
			}
			startsAt := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			out = append(out, model.ClassOccurrence{
				ClassID:         c.ID,
				Title:           c.Title,
				Instructor:      c.Instructor,
				Level:           c.Level,
				StartsAt:        startsAt,
				DurationMinutes: c.DurationMinutes,
			})
		}
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseStartTime(s string) (hour, minute int, err error) {
	if _, err = fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("parse start time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("start time %q out of range", s)
	}
	return hour, minute, nil
}
