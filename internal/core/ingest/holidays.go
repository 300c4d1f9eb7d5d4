package ingest

import (
	"time"

	"github.com/rickar/cal/v2"
)

// Fixed-date Korean public holidays
var koreanFixedHolidays = []*cal.Holiday{
	{Name: "신정", Type: cal.ObservancePublic, Month: time.January, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "삼일절", Type: cal.ObservancePublic, Month: time.March, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "어린이날", Type: cal.ObservancePublic, Month: time.May, Day: 5, Func: cal.CalcDayOfMonth},
	{Name: "현충일", Type: cal.ObservancePublic, Month: time.June, Day: 6, Func: cal.CalcDayOfMonth},
	{Name: "광복절", Type: cal.ObservancePublic, Month: time.August, Day: 15, Func: cal.CalcDayOfMonth},
	{Name: "개천절", Type: cal.ObservancePublic, Month: time.October, Day: 3, Func: cal.CalcDayOfMonth},
	{Name: "한글날", Type: cal.ObservancePublic, Month: time.October, Day: 9, Func: cal.CalcDayOfMonth},
	{Name: "성탄절", Type: cal.ObservancePublic, Month: time.December, Day: 25, Func: cal.CalcDayOfMonth},
}

// lunarYear holds the Gregorian dates of the lunisolar holidays for one year
type lunarYear struct {
	seollal time.Time // 설날, lunar 1/1
	buddha  time.Time // 석가탄신일, lunar 4/8
	chuseok time.Time // 추석, lunar 8/15
}

func gdate(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// lunarYears carries the published dates for 2015 through 2030. The
// lunisolar conversion is not worth reimplementing; the observed dates are
// fixed years ahead by the KARI almanac.
var lunarYears = map[int]lunarYear{
	2015: {gdate(2015, time.February, 19), gdate(2015, time.May, 25), gdate(2015, time.September, 27)},
	2016: {gdate(2016, time.February, 8), gdate(2016, time.May, 14), gdate(2016, time.September, 15)},
	2017: {gdate(2017, time.January, 28), gdate(2017, time.May, 3), gdate(2017, time.October, 4)},
	2018: {gdate(2018, time.February, 16), gdate(2018, time.May, 22), gdate(2018, time.September, 24)},
	2019: {gdate(2019, time.February, 5), gdate(2019, time.May, 12), gdate(2019, time.September, 13)},
	2020: {gdate(2020, time.January, 25), gdate(2020, time.April, 30), gdate(2020, time.October, 1)},
	2021: {gdate(2021, time.February, 12), gdate(2021, time.May, 19), gdate(2021, time.September, 21)},
	2022: {gdate(2022, time.February, 1), gdate(2022, time.May, 8), gdate(2022, time.September, 10)},
	2023: {gdate(2023, time.January, 22), gdate(2023, time.May, 27), gdate(2023, time.September, 29)},
	2024: {gdate(2024, time.February, 10), gdate(2024, time.May, 15), gdate(2024, time.September, 17)},
	2025: {gdate(2025, time.January, 29), gdate(2025, time.May, 5), gdate(2025, time.October, 6)},
	2026: {gdate(2026, time.February, 17), gdate(2026, time.May, 24), gdate(2026, time.September, 25)},
	2027: {gdate(2027, time.February, 7), gdate(2027, time.May, 13), gdate(2027, time.September, 15)},
	2028: {gdate(2028, time.January, 26), gdate(2028, time.May, 2), gdate(2028, time.October, 3)},
	2029: {gdate(2029, time.February, 13), gdate(2029, time.May, 20), gdate(2029, time.September, 22)},
	2030: {gdate(2030, time.February, 3), gdate(2030, time.May, 9), gdate(2030, time.September, 12)},
}

// lunarHoliday builds a holiday resolved through the published-date table.
// Years outside the table yield no holiday.
func lunarHoliday(name string, pick func(lunarYear) time.Time, offsetDays int) *cal.Holiday {
	return &cal.Holiday{
		Name: name,
		Type: cal.ObservancePublic,
		Func: func(h *cal.Holiday, year int) time.Time {
			ly, ok := lunarYears[year]
			if !ok {
				return time.Time{}
			}
			return pick(ly).AddDate(0, 0, offsetDays)
		},
	}
}

// koreanLunarHolidays expands the table into the three-day 설날 and 추석
// spans plus 석가탄신일.
func koreanLunarHolidays() []*cal.Holiday {
	seollal := func(ly lunarYear) time.Time { return ly.seollal }
	buddha := func(ly lunarYear) time.Time { return ly.buddha }
	chuseok := func(ly lunarYear) time.Time { return ly.chuseok }
	return []*cal.Holiday{
		lunarHoliday("설날 연휴", seollal, -1),
		lunarHoliday("설날", seollal, 0),
		lunarHoliday("설날 연휴", seollal, 1),
		lunarHoliday("석가탄신일", buddha, 0),
		lunarHoliday("추석 연휴", chuseok, -1),
		lunarHoliday("추석", chuseok, 0),
		lunarHoliday("추석 연휴", chuseok, 1),
	}
}
