package sanitize

import "testing"

func TestTextStripsMarkup(t *testing.T) {
	cases := map[string]string{
		"  Free SEO audit  ":                       "Free SEO audit",
		"<b>Grow</b> your list":                    "Grow your list",
		`<script>alert("x")</script>Book a call`:   "Book a call",
		"Tom &amp; Jerry":                          "Tom & Jerry",
	}
	for input, want := range cases {
		if got := Text(input); got != want {
			t.Errorf("Text(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestOptionalTextCollapsesEmpty(t *testing.T) {
	blank := "   <i></i> "
	if OptionalText(&blank) != nil {
		t.Fatal("expected blank input to become nil")
	}
	if OptionalText(nil) != nil {
		t.Fatal("expected nil input to stay nil")
	}
	value := "Not a fit"
	if got := OptionalText(&value); got == nil || *got != "Not a fit" {
		t.Fatalf("unexpected result %v", got)
	}
}
