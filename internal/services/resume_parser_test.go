package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractBasicInfo(t *testing.T) {
	t.Parallel()

	text := `Jane Doe
jane.doe@example.com | +1 555-123-4567

Skills: Python, Docker, PostgreSQL and React`

	info := ExtractBasicInfo(text)
	if info.Email != "jane.doe@example.com" {
		t.Fatalf("unexpected email %q", info.Email)
	}
	if !strings.Contains(info.Phone, "555-123-4567") {
		t.Fatalf("unexpected phone %q", info.Phone)
	}

	want := map[string]bool{"Python": true, "Docker": true, "PostgreSQL": true, "React": true, "SQL": true}
	for _, s := range info.Skills {
		delete(want, s)
	}
	if len(want) != 0 {
		t.Fatalf("missing skills %v in %v", want, info.Skills)
	}
}

func TestExtractBasicInfoEmpty(t *testing.T) {
	t.Parallel()

	info := ExtractBasicInfo("no contact details here")
	if info.Email != "" || info.Phone != "" || len(info.Skills) != 0 {
		t.Fatalf("expected empty info, got %+v", info)
	}
	if info.Skills == nil {
		t.Fatalf("skills must be an empty slice, not nil")
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	text := "first paragraph\n\nsecond paragraph\n\nthird paragraph"

	if got := TruncateText(text, 1000); got != text {
		t.Fatalf("short text must be unchanged, got %q", got)
	}
	if got := TruncateText(text, 35); got != "first paragraph\n\nsecond paragraph" {
		t.Fatalf("expected two whole paragraphs, got %q", got)
	}

	long := strings.Repeat("é", 50)
	got := TruncateText(long, 10)
	if utf8.RuneCountInString(got) != 10 || !utf8.ValidString(got) {
		t.Fatalf("expected 10 valid runes, got %q", got)
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	raw := "\n\n  Header  \r\n\r\n\r\nline one\nline two   \n\n\n"
	want := "Header\n\nline one\nline two"
	if got := CleanText(raw); got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, first, last string
	}{
		{"", "", ""},
		{"Cher", "Cher", ""},
		{"Mary Ann Smith", "Mary", "Ann Smith"},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		if first != tt.first || last != tt.last {
			t.Fatalf("splitName(%q) = %q, %q", tt.in, first, last)
		}
	}
}
