package transport

import (
	"time"

	"magnetlab_backend/internal/qualification/domain"

	"github.com/google/uuid"
)

// QuestionRequest is the request body for creating a question.
type QuestionRequest struct {
	QuestionText     string            `json:"questionText" validate:"required,min=1,max=500"`
	AnswerType       domain.AnswerType `json:"answerType" validate:"omitempty,oneof=yes_no text textarea multiple_choice"`
	QualifyingAnswer *bool             `json:"qualifyingAnswer"`
	Options          []string          `json:"options" validate:"omitempty,max=20,dive,min=1,max=200"`
	Placeholder      *string           `json:"placeholder" validate:"omitempty,max=200"`
	IsRequired       *bool             `json:"isRequired"`
	QuestionOrder    *int              `json:"questionOrder" validate:"omitempty,min=0"`
}

// UpdateQuestionRequest is the request body for patching a question.
type UpdateQuestionRequest struct {
	QuestionText     *string            `json:"questionText" validate:"omitempty,min=1,max=500"`
	AnswerType       *domain.AnswerType `json:"answerType" validate:"omitempty,oneof=yes_no text textarea multiple_choice"`
	QualifyingAnswer *bool              `json:"qualifyingAnswer"`
	ClearQualifying  bool               `json:"clearQualifyingAnswer"`
	Options          []string           `json:"options" validate:"omitempty,max=20,dive,min=1,max=200"`
	Placeholder      *string            `json:"placeholder" validate:"omitempty,max=200"`
	IsRequired       *bool              `json:"isRequired"`
	QuestionOrder    *int               `json:"questionOrder" validate:"omitempty,min=0"`
}

// CreateFormRequest is the request body for creating a qualification form.
type CreateFormRequest struct {
	Name      string            `json:"name" validate:"required,min=1,max=120"`
	Questions []QuestionRequest `json:"questions" validate:"omitempty,max=50,dive"`
}

// UpdateFormRequest is the request body for renaming a form.
type UpdateFormRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// FromTemplateRequest creates a form from a starter template.
type FromTemplateRequest struct {
	TemplateKey string  `json:"templateKey" validate:"required,max=64"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
}

// ReorderItem moves one question to a new position.
type ReorderItem struct {
	ID            uuid.UUID `json:"id" validate:"required"`
	QuestionOrder int       `json:"questionOrder" validate:"min=0"`
}

// ReorderRequest is the request body for reordering form questions.
type ReorderRequest struct {
	Items []ReorderItem `json:"items" validate:"required,min=1,max=100,dive"`
}

// QuestionResponse is the owner-facing question shape.
type QuestionResponse struct {
	ID               uuid.UUID         `json:"id"`
	FunnelPageID     *uuid.UUID        `json:"funnelPageId,omitempty"`
	FormID           *uuid.UUID        `json:"formId,omitempty"`
	QuestionText     string            `json:"questionText"`
	QuestionOrder    int               `json:"questionOrder"`
	AnswerType       domain.AnswerType `json:"answerType"`
	QualifyingAnswer *bool             `json:"qualifyingAnswer"`
	Options          []string          `json:"options"`
	Placeholder      *string           `json:"placeholder"`
	IsRequired       bool              `json:"isRequired"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// PublicQuestion is the visitor-facing question shape. It never exposes the
// qualifying answer.
type PublicQuestion struct {
	ID            uuid.UUID         `json:"id"`
	QuestionText  string            `json:"questionText"`
	QuestionOrder int               `json:"questionOrder"`
	AnswerType    domain.AnswerType `json:"answerType"`
	Options       []string          `json:"options"`
	Placeholder   *string           `json:"placeholder"`
	IsRequired    bool              `json:"isRequired"`
}

// PublicQuestionsResponse is the response of the public question endpoint.
type PublicQuestionsResponse struct {
	Questions []PublicQuestion `json:"questions"`
}

// QuestionListResponse lists owner-facing questions.
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
}

// FormResponse is a qualification form with its questions.
type FormResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	QuestionCount int                `json:"questionCount"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// FormListResponse lists forms.
type FormListResponse struct {
	Forms []FormResponse `json:"forms"`
}

// ReorderItemResult reports the outcome for one reorder item.
type ReorderItemResult struct {
	ID      uuid.UUID `json:"id"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// ReorderResponse reports per-item reorder outcomes.
type ReorderResponse struct {
	Updated int                 `json:"updated"`
	Failed  int                 `json:"failed"`
	Results []ReorderItemResult `json:"results"`
}

// TemplateQuestion is one question of a starter template.
type TemplateQuestion struct {
	QuestionText     string            `json:"questionText"`
	AnswerType       domain.AnswerType `json:"answerType"`
	QualifyingAnswer *bool             `json:"qualifyingAnswer"`
	Options          []string          `json:"options,omitempty"`
	Placeholder      *string           `json:"placeholder,omitempty"`
}

// TemplateResponse describes a starter template.
type TemplateResponse struct {
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Questions   []TemplateQuestion `json:"questions"`
}

// TemplateListResponse lists starter templates.
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// ToQuestionResponse maps a question to the owner-facing shape.
func ToQuestionResponse(q domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:               q.ID,
		FunnelPageID:     q.FunnelPageID,
		FormID:           q.FormID,
		QuestionText:     q.QuestionText,
		QuestionOrder:    q.QuestionOrder,
		AnswerType:       q.AnswerType,
		QualifyingAnswer: q.QualifyingAnswer,
		Options:          nonNilOptions(q.Options),
		Placeholder:      q.Placeholder,
		IsRequired:       q.IsRequired,
		CreatedAt:        q.CreatedAt,
	}
}

// ToQuestionResponses maps a slice of questions to the owner-facing shape.
func ToQuestionResponses(questions []domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, ToQuestionResponse(q))
	}
	return out
}

// ToPublicQuestions maps questions to the visitor-facing shape, keeping order.
func ToPublicQuestions(questions []domain.Question) []PublicQuestion {
	out := make([]PublicQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, PublicQuestion{
			ID:            q.ID,
			QuestionText:  q.QuestionText,
			QuestionOrder: q.QuestionOrder,
			AnswerType:    q.AnswerType,
			Options:       nonNilOptions(q.Options),
			Placeholder:   q.Placeholder,
			IsRequired:    q.IsRequired,
		})
	}
	return out
}

func nonNilOptions(options []string) []string {
	if options == nil {
		return []string{}
	}
	return options
}
