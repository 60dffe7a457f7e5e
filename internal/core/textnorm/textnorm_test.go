package textnorm

import (
	"testing"
)

func TestFold_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity ascii", in: "automation", out: "automation"},
		{name: "case fold", in: "AutoMation-Cleanup", out: "automation-cleanup"},
		{name: "utf8 repair drops invalid bytes", in: string([]byte{0xff, 'b', 'u', 'g', 0x80}), out: "bug"},
		{name: "remove zero-widths", in: "Co​pi‍lot", out: "copilot"},
		{name: "remove combining marks", in: "café", out: "cafe"},
		{name: "precomposed accent", in: "R\u00e9sum\u00e9 Caf\u00c9", out: "resume cafe"},
		{name: "decomposed accent", in: "Cafe\u0301 Nin\u0303o", out: "cafe nino"},
		{name: "fullwidth with accent", in: "\uff23\uff41\uff46\u00e9", out: "cafe"},
		{name: "hangul survives recomposition", in: "\ud55c\uae00", out: "\ud55c\uae00"},
		{name: "width fold fullwidth", in: "ＡＵＴＯ bot", out: "auto bot"},
		{name: "nfkc ligature", in: "oﬃce", out: "office"},
		{name: "collapse whitespace", in: "  Created \t  At\n", out: "created at"},
		{name: "control bytes dropped", in: "Task\x00 ID\x7f", out: "task id"},
		{name: "empty", in: "", out: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Fold(tc.in)
			if got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := Fold(got); again != got {
				t.Fatalf("Fold not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestEqualAndContains(t *testing.T) {
	if !Equal("Issue key", "ISSUE  KEY") {
		t.Fatalf("expected header spellings to fold equal")
	}
	if Equal("Issue key", "Issue keys") {
		t.Fatalf("different headers must not be equal")
	}
	if !Contains("ops, Automation-Cleanup", "automation") {
		t.Fatalf("expected case-insensitive containment")
	}
	if Contains("bug", "automation") {
		t.Fatalf("bug must not contain automation")
	}
	if Contains("anything", "  ") {
		t.Fatalf("blank needle must never match")
	}
}

func TestSplit(t *testing.T) {
	got := Split(" Bug; Automation-Cleanup ,, |Infra ")
	want := []string{"bug", "automation-cleanup", "infra"}
	if len(got) != len(want) {
		t.Fatalf("Split len = %d, want %d (%q)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Split[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if n := len(Split("")); n != 0 {
		t.Fatalf("Split(\"\") len = %d, want 0", n)
	}
}

func TestSanitize_FastPathUnchanged(t *testing.T) {
	in := "plain text\twith tab"
	if got := sanitize(in); got != in {
		t.Fatalf("sanitize changed clean input: %q", got)
	}
}
