// Package domain provides the core qualification rules: the question model,
// the evaluator that turns answers into a verdict, and the verdict itself.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnswerType controls how a question is rendered to visitors.
type AnswerType string

const (
	AnswerTypeYesNo          AnswerType = "yes_no"
	AnswerTypeText           AnswerType = "text"
	AnswerTypeTextarea       AnswerType = "textarea"
	AnswerTypeMultipleChoice AnswerType = "multiple_choice"
)

// Valid reports whether t is one of the supported answer types.
func (t AnswerType) Valid() bool {
	switch t {
	case AnswerTypeYesNo, AnswerTypeText, AnswerTypeTextarea, AnswerTypeMultipleChoice:
		return true
	}
	return false
}

// Question is a screening question owned either by a funnel page (legacy)
// or by a reusable qualification form. Exactly one of FunnelPageID and
// FormID is set.
type Question struct {
	ID               uuid.UUID
	FunnelPageID     *uuid.UUID
	FormID           *uuid.UUID
	QuestionText     string
	QuestionOrder    int
	AnswerType       AnswerType
	QualifyingAnswer *bool
	Options          []string
	Placeholder      *string
	IsRequired       bool
	CreatedAt        time.Time
}

// Gates reports whether the question takes part in evaluation.
func (q Question) Gates() bool {
	return q.QualifyingAnswer != nil
}
