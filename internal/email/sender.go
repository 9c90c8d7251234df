// Package email renders and delivers owner notification emails.
package email

import "context"

// LeadNotification describes a lead an owner is being told about.
type LeadNotification struct {
	OwnerName    string
	LeadEmail    string
	LeadName     string
	FunnelTitle  string
	DashboardURL string
}

type Sender interface {
	SendLeadCapturedEmail(ctx context.Context, toEmail string, lead LeadNotification) error
	SendLeadQualifiedEmail(ctx context.Context, toEmail string, lead LeadNotification) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendLeadCapturedEmail(context.Context, string, LeadNotification) error  { return nil }
func (NoopSender) SendLeadQualifiedEmail(context.Context, string, LeadNotification) error { return nil }
func (NoopSender) SendCustomEmail(context.Context, string, string, string) error          { return nil }

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
