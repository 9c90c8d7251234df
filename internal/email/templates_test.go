package email

import (
	"context"
	"strings"
	"testing"
)

func TestRenderLeadCaptured(t *testing.T) {
	subject, body, err := RenderLeadCaptured(LeadNotification{
		OwnerName:    "Jane",
		LeadEmail:    "lead@example.com",
		LeadName:     "<script>alert(1)</script>",
		FunnelTitle:  "Free SEO audit",
		DashboardURL: "https://app.example.com/leads",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "New lead from Free SEO audit" {
		t.Fatalf("subject = %q", subject)
	}
	if strings.Contains(body, "<script>") {
		t.Fatal("lead name must be escaped")
	}
	for _, want := range []string{"Hi Jane", "lead@example.com", "https://app.example.com/leads"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderLeadQualifiedFallsBackToEmail(t *testing.T) {
	subject, body, err := RenderLeadQualified(LeadNotification{LeadEmail: "lead@example.com"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "Qualified lead ready to book: lead@example.com" {
		t.Fatalf("subject = %q", subject)
	}
	if !strings.Contains(body, "your funnel") || strings.Contains(body, "Open leads") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestNoopSender(t *testing.T) {
	var s Sender = NoopSender{}
	if err := s.SendLeadCapturedEmail(context.Background(), "x@example.com", LeadNotification{}); err != nil {
		t.Fatal(err)
	}
}
