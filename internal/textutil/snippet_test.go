package textutil

import (
	"strings"
	"testing"
)

func TestSnippet(t *testing.T) {
	if got := Snippet("   "); got != "<empty>" {
		t.Fatalf("expected <empty>, got %q", got)
	}
	if got := Snippet("a\n\tb   c"); got != "a b c" {
		t.Fatalf("expected collapsed whitespace, got %q", got)
	}
	long := strings.Repeat("x", 200)
	got := Snippet(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != snippetLimit+3 {
		t.Fatalf("expected truncated snippet, got %d runes", len([]rune(got)))
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", " b ", "c"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
