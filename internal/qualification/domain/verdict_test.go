package domain

import "testing"

func TestVerdictNullableRoundTrip(t *testing.T) {
	for _, v := range []Verdict{NotEvaluated, Qualified, Disqualified} {
		if got := VerdictFromNullable(v.Nullable()); got != v {
			t.Errorf("round trip of %v produced %v", v, got)
		}
	}
	if NotEvaluated.Nullable() != nil {
		t.Fatal("expected NotEvaluated to store as NULL")
	}
}

func TestParseVerdict(t *testing.T) {
	cases := map[string]Verdict{
		"pending":      NotEvaluated,
		"qualified":    Qualified,
		"disqualified": Disqualified,
	}
	for input, want := range cases {
		got, err := ParseVerdict(input)
		if err != nil {
			t.Fatalf("ParseVerdict(%q) error: %v", input, err)
		}
		if got != want || got.String() != input {
			t.Errorf("ParseVerdict(%q) = %v", input, got)
		}
	}
	if _, err := ParseVerdict("maybe"); err == nil {
		t.Fatal("expected error for unknown verdict")
	}
}

func TestAnswerTypeValid(t *testing.T) {
	if !AnswerTypeMultipleChoice.Valid() || AnswerType("slider").Valid() {
		t.Fatal("unexpected answer type validity")
	}
}
