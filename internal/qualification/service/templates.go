package service

import (
	"embed"
	"fmt"
	"sort"

	"magnetlab_backend/internal/qualification/domain"

	"gopkg.in/yaml.v3"
)

//go:embed templates/catalogue.yaml
var templatesFS embed.FS

// Template is a starter question set owners can copy into a new form.
type Template struct {
	Key         string             `yaml:"key"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Questions   []TemplateQuestion `yaml:"questions"`
}

// TemplateQuestion is one question inside a Template.
type TemplateQuestion struct {
	Text        string   `yaml:"text"`
	Type        string   `yaml:"type"`
	Qualifying  *bool    `yaml:"qualifying"`
	Options     []string `yaml:"options"`
	Placeholder *string  `yaml:"placeholder"`
}

// TemplateCatalog holds the parsed starter templates keyed by Template.Key.
type TemplateCatalog struct {
	byKey map[string]Template
	order []string
}

type catalogueFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadTemplateCatalog parses the embedded catalogue.
func LoadTemplateCatalog() (*TemplateCatalog, error) {
	raw, err := templatesFS.ReadFile("templates/catalogue.yaml")
	if err != nil {
		return nil, fmt.Errorf("read template catalogue: %w", err)
	}
	return ParseTemplateCatalog(raw)
}

// ParseTemplateCatalog parses a YAML catalogue and validates every question.
func ParseTemplateCatalog(raw []byte) (*TemplateCatalog, error) {
	var file catalogueFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse template catalogue: %w", err)
	}

	catalog := &TemplateCatalog{byKey: make(map[string]Template, len(file.Templates))}
	for _, tpl := range file.Templates {
		if tpl.Key == "" {
			return nil, fmt.Errorf("template %q has no key", tpl.Name)
		}
		if _, dup := catalog.byKey[tpl.Key]; dup {
			return nil, fmt.Errorf("duplicate template key %q", tpl.Key)
		}
		for i, q := range tpl.Questions {
			if q.Text == "" {
				return nil, fmt.Errorf("template %q question %d has no text", tpl.Key, i)
			}
			if !domain.AnswerType(q.Type).Valid() {
				return nil, fmt.Errorf("template %q question %d has invalid type %q", tpl.Key, i, q.Type)
			}
		}
		catalog.byKey[tpl.Key] = tpl
		catalog.order = append(catalog.order, tpl.Key)
	}
	sort.Strings(catalog.order)
	return catalog, nil
}

// List returns all templates sorted by key.
func (c *TemplateCatalog) List() []Template {
	out := make([]Template, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.byKey[key])
	}
	return out
}

// Get returns the template with the given key.
func (c *TemplateCatalog) Get(key string) (Template, bool) {
	tpl, ok := c.byKey[key]
	return tpl, ok
}

// ToQuestions converts the template into unsaved domain questions.
func (t Template) ToQuestions() []domain.Question {
	out := make([]domain.Question, 0, len(t.Questions))
	for i, q := range t.Questions {
		answerType := domain.AnswerType(q.Type)
		question := domain.Question{
			QuestionText:  q.Text,
			QuestionOrder: i,
			AnswerType:    answerType,
			Options:       q.Options,
			Placeholder:   q.Placeholder,
			IsRequired:    true,
		}
		if answerType == domain.AnswerTypeYesNo {
			question.QualifyingAnswer = q.Qualifying
		}
		out = append(out, question)
	}
	return out
}
