package timeutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"9:5", "09:05"},
		{"16:05", "16:05"},
		{"16:05～", "16:05"},
		{"start 7:30 pm", "07:30"},
		{"no clock here", "no clock here"},
		{"  trailing  ", "trailing"},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDeriveEnd(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"garbage", ""},
		{"16:05", "16:55"},
		{"17:55", "18:45"},
		{"09:05", "09:55"},
		{"23:40", "00:30"},
		{"23:10", "00:00"},
	}

	for _, c := range cases {
		if got := DeriveEnd(c.in); got != c.want {
			t.Errorf("DeriveEnd(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeThenDerive(t *testing.T) {
	if got := DeriveEnd(Normalize("9:5")); got != "09:55" {
		t.Errorf("DeriveEnd(Normalize(9:5)) = %q, want 09:55", got)
	}
}

func TestCanonicalDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024/05/01", "2024-05-01"},
		{"2024-05-01", "2024-05-01"},
		{" 2024/05/01 ", "2024-05-01"},
		{"", ""},
		{"not-a-date", "not-a-date"},
	}

	for _, c := range cases {
		if got := CanonicalDate(c.in); got != c.want {
			t.Errorf("CanonicalDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate("2024-05-01"); got != "2024/05/01" {
		t.Errorf("DisplayDate(2024-05-01) = %q, want 2024/05/01", got)
	}
}
