package email

const (
	subjectLeadCapturedFmt  = "New lead from %s"
	subjectLeadQualifiedFmt = "Qualified lead ready to book: %s"
	fallbackFunnelTitle     = "your funnel"
	fallbackLeadDisplayName = "A visitor"
)
