// Package datemath implements the proleptic Gregorian calendar arithmetic
// needed to resolve annual transition rules into concrete dates.
package datemath

import "time"

// IsLeapYear determines if the year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in a given month for a specific year.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

// DayOfWeek calculates the day of the week for a given date.
func DayOfWeek(year int, month time.Month, day int) time.Weekday {
	// Zeller's congruence for the Gregorian calendar.
	m := int(month)
	if m < 3 {
		m += 12
		year -= 1
	}
	k := year % 100
	j := year / 100
	h := (day + ((13 * (m + 1)) / 5) + k + (k / 4) + (j / 4) + (5 * j)) % 7
	// h is 0 for Saturday; shift so that Sunday is 0.
	return time.Weekday((h + 6) % 7)
}

// NthWeekdayOfMonth returns the day of month of the nth occurrence of weekday
// in the given month. Weeks past the last occurrence (n = 5 in most months)
// resolve to the last occurrence, never to a day outside the month.
func NthWeekdayOfMonth(year int, month time.Month, n int, weekday time.Weekday) int {
	if n >= 5 {
		return LastWeekdayOfMonth(year, month, weekday)
	}
	first := DayOfWeek(year, month, 1)
	day := 1 + (int(weekday)-int(first)+7)%7
	return day + 7*(n-1)
}

// LastWeekdayOfMonth finds the last instance of a given weekday in a specific month and year.
func LastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) int {
	lastDay := DaysInMonth(year, month)
	offset := (int(DayOfWeek(year, month, lastDay)) - int(weekday) + 7) % 7
	return lastDay - offset
}

// MonthDayOfYear converts a one-based day of a non-leap year into a month and day.
// February 29 is never counted, so day 60 is always March 1.
func MonthDayOfYear(yday int) (time.Month, int) {
	month := time.January
	for yday > DaysInMonth(1, month) && month < time.December {
		yday -= DaysInMonth(1, month)
		month++
	}
	return month, yday
}

// DayOfYear is the inverse of MonthDayOfYear. It returns 0 for February 29.
func DayOfYear(month time.Month, day int) int {
	if month == time.February && day == 29 {
		return 0
	}
	yday := day
	for m := time.January; m < month; m++ {
		yday += DaysInMonth(1, m)
	}
	return yday
}
