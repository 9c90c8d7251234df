package repository

import "testing"

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"growth":    "growth",
		"50%_off":   `50\%\_off`,
		`back\path`: `back\\path`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
