package domain

import (
	"strings"
	"testing"
)

func TestTruncateDescriptive(t *testing.T) {
	short := "a short answer"
	if got := TruncateDescriptive(short); got != short {
		t.Fatalf("short answer was modified: %q", got)
	}

	exact := strings.Repeat("a", MaxDescriptiveAnswerLen)
	if got := TruncateDescriptive(exact); got != exact {
		t.Fatalf("exact-length answer was modified")
	}

	long := strings.Repeat("a", MaxDescriptiveAnswerLen+1)
	if got := TruncateDescriptive(long); len([]rune(got)) != MaxDescriptiveAnswerLen {
		t.Fatalf("truncated length = %d, want %d", len([]rune(got)), MaxDescriptiveAnswerLen)
	}
}

func TestTruncateDescriptiveMultibyte(t *testing.T) {
	// Multibyte runes must never be split mid-character
	long := strings.Repeat("ع", MaxDescriptiveAnswerLen+50)
	got := TruncateDescriptive(long)
	runes := []rune(got)
	if len(runes) != MaxDescriptiveAnswerLen {
		t.Fatalf("truncated rune count = %d, want %d", len(runes), MaxDescriptiveAnswerLen)
	}
	for _, r := range runes {
		if r != 'ع' {
			t.Fatalf("truncation corrupted a rune: %q", r)
		}
	}
}

func TestAttemptStatusIsTerminal(t *testing.T) {
	if AttemptStatusInProgress.IsTerminal() {
		t.Fatalf("in_progress reported terminal")
	}
	for _, status := range []AttemptStatus{
		AttemptStatusSubmitted,
		AttemptStatusCompleted,
		AttemptStatusTimedOut,
		AttemptStatusAbandoned,
	} {
		if !status.IsTerminal() {
			t.Fatalf("%s not reported terminal", status)
		}
	}
}
