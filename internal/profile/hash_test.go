package profile

import "testing"

func TestNormalizeTag(t *testing.T) {
	cases := map[string]string{
		"DEMO":    "demo",
		" Demo ":  "demo",
		"demo":    "demo",
		"  A B  ": "a b",
	}
	for in, want := range cases {
		if got := NormalizeTag(in); got != want {
			t.Fatalf("NormalizeTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuestionHashDeterministic(t *testing.T) {
	a := QuestionHash("sec1", 1, "Age?")
	b := QuestionHash("sec1", 1, "Age?")
	if a != b {
		t.Fatalf("same inputs hashed differently: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestQuestionHashVariesPerField(t *testing.T) {
	base := QuestionHash("sec1", 1, "Age?")
	if QuestionHash("sec2", 1, "Age?") == base {
		t.Fatalf("section id change did not change hash")
	}
	if QuestionHash("sec1", 2, "Age?") == base {
		t.Fatalf("question number change did not change hash")
	}
	if QuestionHash("sec1", 1, "Name?") == base {
		t.Fatalf("question text change did not change hash")
	}
}

func TestQuestionHashTrimsText(t *testing.T) {
	if QuestionHash("sec1", 1, "  Age?  ") != QuestionHash("sec1", 1, "Age?") {
		t.Fatalf("surrounding whitespace changed the hash")
	}
}
