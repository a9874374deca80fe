package identity

import "testing"

func TestExtractID(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://site/abc123?x=1", "abc123"},
		{"https://www.example.com/explore/65f0a1b2c3", "65f0a1b2c3"},
		{"/user/profile/5e8a9f0b?channel=note", "5e8a9f0b"},
		{"/user/profile/5e8a9f0b", "5e8a9f0b"},
		{"", ""},
		{"no-slash-at-all", ""},
	}
	for _, tt := range tests {
		if got := ExtractID(tt.href); got != tt.want {
			t.Errorf("ExtractID(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
