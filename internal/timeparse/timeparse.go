// Package timeparse normalizes the relative and absolute timestamp phrases
// found on scraped pages into canonical YYYY-MM-DD date strings.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const layout = "2006-01-02"

// nullMarkers are raw values that mean "no timestamp at all".
var nullMarkers = map[string]bool{
	"":    true,
	"N/A": true,
	"无":   true,
	"未知":  true,
}

var (
	minutesAgoRe = regexp.MustCompile(`^(\d+)分钟前$`)
	hoursAgoRe   = regexp.MustCompile(`^(\d+)小时前$`)
	todayRe      = regexp.MustCompile(`^今天\s+(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	yesterdayRe  = regexp.MustCompile(`^昨天\s+(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	daysAgoRe    = regexp.MustCompile(`^(\d+)天前$`)
	fullRe       = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})\s+(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	ymdRe        = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	mdRe         = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)
)

// Normalize converts a raw timestamp phrase into a canonical YYYY-MM-DD string
// relative to now. Null-marker inputs return "". Unrecognized inputs are
// returned unchanged, so the function is idempotent: an already-canonical date
// matches the YYYY-MM-DD pattern and round-trips to itself.
func Normalize(raw string, now time.Time) string {
	s := strings.TrimSpace(raw)
	if nullMarkers[s] {
		return ""
	}

	if strings.Contains(s, "刚刚") {
		return now.Format(layout)
	}

	if m := minutesAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * time.Minute).Format(layout)
	}

	if m := hoursAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * time.Hour).Format(layout)
	}

	if m := todayRe.FindStringSubmatch(s); m != nil {
		if clockValid(m[1], m[2], m[3]) {
			return now.Format(layout)
		}
		return s
	}

	if m := yesterdayRe.FindStringSubmatch(s); m != nil {
		if clockValid(m[1], m[2], m[3]) {
			return now.AddDate(0, 0, -1).Format(layout)
		}
		return s
	}

	if m := daysAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, -n).Format(layout)
	}

	if m := fullRe.FindStringSubmatch(s); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok && clockValid(m[4], m[5], m[6]) {
			return d.Format(layout)
		}
		return s
	}

	if m := ymdRe.FindStringSubmatch(s); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d.Format(layout)
		}
		return s
	}

	if m := mdRe.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		if c, ok := date(now.Year(), mo, d, now.Location()); ok {
			// A year-less date is never in the future; roll back a year if
			// assuming the current year would put it there.
			if c.After(now) {
				c, ok = date(now.Year()-1, mo, d, now.Location())
				if !ok {
					return s
				}
			}
			return c.Format(layout)
		}
		return s
	}

	return s
}

// calendarDate builds a date from string components, rejecting values that
// time.Date would silently normalize (month 13, Feb 30, ...).
func calendarDate(ys, mos, ds string) (time.Time, bool) {
	y, _ := strconv.Atoi(ys)
	mo, _ := strconv.Atoi(mos)
	d, _ := strconv.Atoi(ds)
	return date(y, mo, d, time.UTC)
}

func date(y, mo, d int, loc *time.Location) (time.Time, bool) {
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// clockValid reports whether HH:MM[:SS] components form a valid time of day.
// The seconds component may be empty.
func clockValid(hs, ms, ss string) bool {
	h, _ := strconv.Atoi(hs)
	m, _ := strconv.Atoi(ms)
	if h > 23 || m > 59 {
		return false
	}
	if ss != "" {
		s, _ := strconv.Atoi(ss)
		if s > 59 {
			return false
		}
	}
	return true
}
