package validator

import "testing"

func TestIsUsername(t *testing.T) {
	valid := []string{"tim", "tim-lead", "agency42", "a1b"}
	invalid := []string{"", "ab", "-tim", "tim-", "Tim", "tim_lead", "this-username-is-way-too-long-for-us"}

	for _, s := range valid {
		if !IsUsername(s) {
			t.Errorf("expected %q to be a valid username", s)
		}
	}
	for _, s := range invalid {
		if IsUsername(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestStructUsesCustomTags(t *testing.T) {
	type req struct {
		Username string `validate:"required,username"`
		Slug     string `validate:"omitempty,slug"`
	}

	v := New()
	if err := v.Struct(req{Username: "growth-lab", Slug: "free-audit"}); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
	if err := v.Struct(req{Username: "growth-lab", Slug: "Free Audit"}); err == nil {
		t.Fatal("expected invalid slug to fail")
	}
	if err := v.Struct(req{Username: "x"}); err == nil {
		t.Fatal("expected short username to fail")
	}
}
