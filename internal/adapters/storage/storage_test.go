package storage

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidateContentType(t *testing.T) {
	for _, ok := range []string{"application/pdf", "Application/PDF; charset=binary", "image/png"} {
		if err := ValidateContentType(ok); err != nil {
			t.Errorf("ValidateContentType(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "application/x-msdownload", "text/html"} {
		if err := ValidateContentType(bad); err == nil {
			t.Errorf("ValidateContentType(%q) expected error", bad)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	s := &MinIOService{maxFileSize: 1024}
	if err := s.ValidateFileSize(1024); err != nil {
		t.Fatalf("expected limit to be inclusive, got %v", err)
	}
	if err := s.ValidateFileSize(0); err == nil {
		t.Fatal("expected empty file to be rejected")
	}
	if err := s.ValidateFileSize(1025); err == nil {
		t.Fatal("expected oversized file to be rejected")
	}
}

func TestBuildFileKey(t *testing.T) {
	id := uuid.MustParse("1234abcd-0000-0000-0000-000000000000")
	cases := map[string]string{
		"guide.pdf":          "owner/guide_1234abcd.pdf",
		"../../etc/passwd":   "owner/passwd_1234abcd",
		`C:\Users\me\a.docx`: "owner/a_1234abcd.docx",
	}
	for input, want := range cases {
		if got := BuildFileKey("owner", input, id); got != want {
			t.Errorf("BuildFileKey(%q) = %q, want %q", input, got, want)
		}
	}
}
