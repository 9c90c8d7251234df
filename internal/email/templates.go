package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type leadEmailData struct {
	baseEmailData
	OwnerName   string
	LeadName    string
	LeadEmail   string
	FunnelTitle string
}

// RenderLeadCaptured returns the subject and HTML body of the new-lead email.
func RenderLeadCaptured(lead LeadNotification) (string, string, error) {
	data := newLeadEmailData(lead, "New lead captured", "Open leads")
	content, err := renderEmailTemplate("lead_captured.html", data)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectLeadCapturedFmt, data.FunnelTitle), content, nil
}

// RenderLeadQualified returns the subject and HTML body of the qualified-lead email.
func RenderLeadQualified(lead LeadNotification) (string, string, error) {
	data := newLeadEmailData(lead, "A lead just qualified", "View lead")
	content, err := renderEmailTemplate("lead_qualified.html", data)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectLeadQualifiedFmt, data.LeadName), content, nil
}

func newLeadEmailData(lead LeadNotification, heading, ctaLabel string) leadEmailData {
	funnel := lead.FunnelTitle
	if funnel == "" {
		funnel = fallbackFunnelTitle
	}
	name := lead.LeadName
	if name == "" {
		name = lead.LeadEmail
	}
	if name == "" {
		name = fallbackLeadDisplayName
	}
	return leadEmailData{
		baseEmailData: baseEmailData{
			Title:    heading,
			Heading:  heading,
			CTALabel: ctaLabel,
			CTAURL:   lead.DashboardURL,
		},
		OwnerName:   lead.OwnerName,
		LeadName:    name,
		LeadEmail:   lead.LeadEmail,
		FunnelTitle: funnel,
	}
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
