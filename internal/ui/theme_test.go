package ui

import (
	"testing"

	"github.com/five82/chirp/internal/media"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	names[0] = "mutated"
	if ThemeNames()[0] != "Nightfox" {
		t.Fatalf("ThemeNames() should return a copy")
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate"); got.Name != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q", got.Name)
	}
	if got := GetTheme("missing"); got.Name != "Nightfox" {
		t.Fatalf("GetTheme(missing).Name = %q, want Nightfox", got.Name)
	}
}

func TestThemesCoverUploadStates(t *testing.T) {
	states := []media.State{media.StateUploading, media.StateProcessing, media.StateReady, media.StateFailed}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, st := range states {
			if th.StatusColors[string(st)] == "" {
				t.Fatalf("theme %s has no color for %s", name, st)
			}
		}
	}
}
