package ingest

import (
	"time"

	"github.com/rickar/cal/v2"
)

// Time-of-day buckets derived from the sale hour
const (
	TimeOfDayLunch  = "lunch"  // 11:00-15:59
	TimeOfDayDinner = "dinner" // 17:00-21:59
	TimeOfDayOther  = "other"
)

// Seasons derived from the sale month
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
	SeasonWinter = "winter"
)

// Holiday flag values. Weekends count as holidays regardless of the public
// calendar.
const (
	FlagHoliday = "holiday"
	FlagWeekday = "weekday"
)

// HolidayCalendar answers whether a calendar date is a public holiday
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// krCalendar wraps the Korean public-holiday calendar
type krCalendar struct {
	cal *cal.Calendar
}

// NewKoreanCalendar creates the holiday calendar for the target locale. The
// holiday set is defined in this package: the fixed-date public holidays plus
// the published lunar dates; rickar/cal supplies the calendar mechanics.
func NewKoreanCalendar() HolidayCalendar {
	c := &cal.Calendar{Name: "South Korea", Cacheable: true}
	c.AddHoliday(koreanFixedHolidays...)
	c.AddHoliday(koreanLunarHolidays()...)
	return &krCalendar{cal: c}
}

func (k *krCalendar) IsHoliday(date time.Time) bool {
	actual, observed, _ := k.cal.IsHoliday(date)
	return actual || observed
}

// timeOfDay buckets an hour into lunch, dinner or other
func timeOfDay(hour int) string {
	switch {
	case hour >= 11 && hour <= 15:
		return TimeOfDayLunch
	case hour >= 17 && hour <= 21:
		return TimeOfDayDinner
	default:
		return TimeOfDayOther
	}
}

// season buckets a month into the four seasons
func season(month int) string {
	switch {
	case month >= 3 && month <= 5:
		return SeasonSpring
	case month >= 6 && month <= 8:
		return SeasonSummer
	case month >= 9 && month <= 11:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// holidayFlag marks public holidays and weekends as holiday
func holidayFlag(ts time.Time, calendar HolidayCalendar) string {
	if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
		return FlagHoliday
	}
	if calendar != nil && calendar.IsHoliday(ts) {
		return FlagHoliday
	}
	return FlagWeekday
}
