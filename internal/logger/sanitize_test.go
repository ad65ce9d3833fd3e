package logger

import (
	"strings"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain path", input: "/places", want: "/places"},
		{name: "newline injection", input: "/places\nfake log line", want: "/placesfake log line"},
		{name: "carriage return stripped", input: "/a\rb", want: "/ab"},
		{name: "invalid utf8 dropped", input: "/a\xffb", want: "/ab"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizePath(tt.input); got != tt.want {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePath_Truncates(t *testing.T) {
	t.Parallel()

	long := "/" + strings.Repeat("a", MaxPathLength*2)
	got := SanitizePath(long)
	if len(got) != MaxPathLength+3 {
		t.Errorf("len(SanitizePath(long)) = %d, want %d", len(got), MaxPathLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated path %q does not end with ellipsis", got[len(got)-10:])
	}
}
