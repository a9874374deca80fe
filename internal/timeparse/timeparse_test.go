package timeparse

import (
	"testing"
	"time"
)

func ref(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		now  time.Time
		want string
	}{
		{"just now", "刚刚", ref("2025-01-01 00:10:00"), "2025-01-01"},
		{"minutes ago", "3分钟前", ref("2025-01-01 00:10:00"), "2025-01-01"},
		{"minutes ago crossing midnight", "15分钟前", ref("2025-01-01 00:10:00"), "2024-12-31"},
		{"hours ago", "2小时前", ref("2025-03-10 12:00:00"), "2025-03-10"},
		{"hours ago crossing midnight", "5小时前", ref("2025-03-10 01:00:00"), "2025-03-09"},
		{"today", "今天 14:30", ref("2025-03-10 18:00:00"), "2025-03-10"},
		{"yesterday", "昨天 09:15", ref("2025-03-10 18:00:00"), "2025-03-09"},
		{"yesterday with seconds", "昨天 09:15:42", ref("2025-03-10 18:00:00"), "2025-03-09"},
		{"days ago", "4天前", ref("2025-03-10 18:00:00"), "2025-03-06"},
		{"full datetime", "2025-02-14 13:45:22", ref("2025-03-10 18:00:00"), "2025-02-14"},
		{"full datetime no seconds", "2025-02-14 13:45", ref("2025-03-10 18:00:00"), "2025-02-14"},
		{"plain date", "2024-03-15", ref("2025-03-10 18:00:00"), "2024-03-15"},
		{"month day past", "01-12", ref("2025-03-10 18:00:00"), "2025-01-12"},
		{"month day future rolls back", "10-12", ref("2025-01-01 00:00:00"), "2024-10-12"},
		{"month day today", "01-01", ref("2025-01-01 00:00:00"), "2025-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw, tt.now); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeNullMarkers(t *testing.T) {
	now := ref("2025-03-10 18:00:00")
	for _, raw := range []string{"", "  ", "N/A", "无", "未知"} {
		if got := Normalize(raw, now); got != "" {
			t.Errorf("Normalize(%q) = %q, want empty", raw, got)
		}
	}
}

func TestNormalizeUnrecognizedPassThrough(t *testing.T) {
	now := ref("2025-03-10 18:00:00")
	for _, raw := range []string{"soon", "三天前", "2025-13-01", "02-30", "今天 25:00"} {
		if got := Normalize(raw, now); got != raw {
			t.Errorf("Normalize(%q) = %q, want input unchanged", raw, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	now := ref("2025-03-10 18:00:00")
	for _, raw := range []string{"昨天 09:15", "3分钟前", "10-12", "2024-03-15"} {
		once := Normalize(raw, now)
		if twice := Normalize(once, now); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", raw, once, twice)
		}
	}
}

func TestNormalizeMonthDayYearRollback(t *testing.T) {
	// The resolved year is the largest year <= the reference year that does
	// not place the date in the future.
	now := ref("2025-06-15 00:00:00")
	if got := Normalize("06-14", now); got != "2025-06-14" {
		t.Errorf("past date in current year: got %q", got)
	}
	if got := Normalize("06-16", now); got != "2024-06-16" {
		t.Errorf("future date rolled back: got %q", got)
	}
}
