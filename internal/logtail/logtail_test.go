package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read partial across compactions (3)",
			maxLines: 3,
			expected: expectedAll[7:],
		},
		{
			name:     "read last line (1)",
			maxLines: 1,
			expected: expectedAll[9:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if lines != nil {
		t.Fatalf("Read() = %v, want nil", lines)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
		ok    bool
	}{
		{
			name:  "text with fields",
			input: `time="2026-10-18T10:00:00.000Z" level=info msg="media ready" asset_id=AQID kind=photo`,
			want: Entry{
				Time:    "2026-10-18T10:00:00.000Z",
				Level:   "info",
				Message: "media ready",
				Fields:  []Field{{"asset_id", "AQID"}, {"kind", "photo"}},
			},
			ok: true,
		},
		{
			name:  "text with escaped quote",
			input: `level=warning msg="status check failed" error="api /media/check/x returned status 502: \"bad gateway\""`,
			want: Entry{
				Level:   "warning",
				Message: "status check failed",
				Fields:  []Field{{"error", `api /media/check/x returned status 502: "bad gateway"`}},
			},
			ok: true,
		},
		{
			name:  "json",
			input: `{"time":"2026-10-18T10:00:00Z","level":"error","msg":"media upload failed","file":"a.png","status":500}`,
			want: Entry{
				Time:    "2026-10-18T10:00:00Z",
				Level:   "error",
				Message: "media upload failed",
				Fields:  []Field{{"file", "a.png"}, {"status", "500"}},
			},
			ok: true,
		},
		{name: "plain text", input: "panic: something broke", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "no level", input: `msg=hello`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse() ok = %v, want %v", ok, tt.ok)
			}
			if tt.ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestColorize_PlainPalette(t *testing.T) {
	input := []string{
		`time="2026-10-18T10:00:05.123+02:00" level=warning msg="skipping unsupported media" file=doc.pdf`,
		"    goroutine 1 [running]:",
		`{"level":"debug","msg":"page data unavailable","page":"home"}`,
	}
	expected := []string{
		"10:00:05.123 WARN skipping unsupported media file=doc.pdf",
		"    goroutine 1 [running]:",
		"DEBU page data unavailable page=home",
	}

	result := ColorizeLines(input, Palette{})
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("ColorizeLines() = %q, want %q", result, expected)
	}
}

func TestColorize_DefaultPaletteKeepsText(t *testing.T) {
	line := `level=error msg="media upload failed" file=a.png`
	got := Colorize(line, DefaultPalette())
	for _, want := range []string{"ERRO", "media upload failed", "a.png"} {
		if !strings.Contains(got, want) {
			t.Errorf("Colorize() = %q, want it to contain %q", got, want)
		}
	}
}
