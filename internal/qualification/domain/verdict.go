package domain

import "fmt"

// Verdict is the qualification state of a lead.
type Verdict int

const (
	// NotEvaluated means the lead has not submitted qualification answers yet.
	NotEvaluated Verdict = iota
	Qualified
	Disqualified
)

// Filter values accepted by lead listings.
const (
	verdictPending      = "pending"
	verdictQualified    = "qualified"
	verdictDisqualified = "disqualified"
)

// VerdictOf maps an evaluation result to a verdict.
func VerdictOf(qualified bool) Verdict {
	if qualified {
		return Qualified
	}
	return Disqualified
}

// VerdictFromNullable maps the nullable storage column to a verdict.
func VerdictFromNullable(qualified *bool) Verdict {
	if qualified == nil {
		return NotEvaluated
	}
	return VerdictOf(*qualified)
}

// Nullable returns the storage representation: nil for NotEvaluated.
func (v Verdict) Nullable() *bool {
	switch v {
	case Qualified:
		t := true
		return &t
	case Disqualified:
		f := false
		return &f
	default:
		return nil
	}
}

func (v Verdict) String() string {
	switch v {
	case Qualified:
		return verdictQualified
	case Disqualified:
		return verdictDisqualified
	default:
		return verdictPending
	}
}

// ParseVerdict parses a filter value produced by Verdict.String.
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case verdictPending:
		return NotEvaluated, nil
	case verdictQualified:
		return Qualified, nil
	case verdictDisqualified:
		return Disqualified, nil
	}
	return NotEvaluated, fmt.Errorf("unknown verdict %q", s)
}
