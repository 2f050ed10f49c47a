package ui

import (
	"reflect"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  hello  ", 0, "hello"},
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, "he"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{-5 * time.Second, "now"},
		{0, "now"},
		{12 * time.Second, "12s"},
		{61 * time.Second, "1m"},
		{2*time.Hour + 10*time.Second, "2h"},
	}
	for _, tc := range cases {
		if got := humanizeDuration(tc.in); got != tc.want {
			t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "like"); got != "1 like" {
		t.Fatalf("plural(1) = %q", got)
	}
	if got := plural(0, "comment"); got != "0 comments" {
		t.Fatalf("plural(0) = %q", got)
	}
}

func TestSplitPaths(t *testing.T) {
	got := splitPaths(`a.png  "my clip.mp4"	c.mp3 `)
	want := []string{"a.png", "my clip.mp4", "c.mp3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitPaths = %#v, want %#v", got, want)
	}
	if got := splitPaths("   "); got != nil {
		t.Fatalf("splitPaths(blank) = %#v, want nil", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcd", 2); got != "abcd" {
		t.Fatalf("padRight longer = %q", got)
	}
}
