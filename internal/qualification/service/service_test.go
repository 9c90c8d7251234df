package service

import (
	"context"
	"errors"
	"testing"

	"magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/internal/qualification/repository"
	"magnetlab_backend/internal/qualification/transport"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	questions map[uuid.UUID]domain.Question
	forms     map[uuid.UUID]repository.Form
	listErr   error
	orderErr  map[uuid.UUID]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		questions: map[uuid.UUID]domain.Question{},
		forms:     map[uuid.UUID]repository.Form{},
		orderErr:  map[uuid.UUID]error{},
	}
}

func (f *fakeRepo) addQuestion(q domain.Question) domain.Question {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	f.questions[q.ID] = q
	return q
}

func (f *fakeRepo) list(match func(domain.Question) bool) []domain.Question {
	out := []domain.Question{}
	for _, q := range f.questions {
		if match(q) {
			out = append(out, q)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].QuestionOrder < out[j-1].QuestionOrder; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (f *fakeRepo) ListByFunnel(_ context.Context, funnelPageID uuid.UUID) ([]domain.Question, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list(func(q domain.Question) bool { return q.FunnelPageID != nil && *q.FunnelPageID == funnelPageID }), nil
}

func (f *fakeRepo) ListByForm(_ context.Context, formID uuid.UUID) ([]domain.Question, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list(belongsToForm(formID)), nil
}

func (f *fakeRepo) GetQuestion(_ context.Context, id uuid.UUID) (domain.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return domain.Question{}, apperr.NotFound("question not found")
	}
	return q, nil
}

func (f *fakeRepo) CreateQuestion(_ context.Context, q domain.Question) (domain.Question, error) {
	return f.addQuestion(q), nil
}

func (f *fakeRepo) UpdateQuestion(_ context.Context, q domain.Question) (domain.Question, error) {
	if _, ok := f.questions[q.ID]; !ok {
		return domain.Question{}, apperr.NotFound("question not found")
	}
	f.questions[q.ID] = q
	return q, nil
}

func (f *fakeRepo) DeleteQuestion(_ context.Context, id uuid.UUID) error {
	delete(f.questions, id)
	return nil
}

func (f *fakeRepo) SetQuestionOrder(_ context.Context, formID, questionID uuid.UUID, order int) error {
	if err := f.orderErr[questionID]; err != nil {
		return err
	}
	q, ok := f.questions[questionID]
	if !ok || q.FormID == nil || *q.FormID != formID {
		return apperr.NotFound("question not found")
	}
	q.QuestionOrder = order
	f.questions[questionID] = q
	return nil
}

func (f *fakeRepo) GetForm(_ context.Context, id, userID uuid.UUID) (repository.Form, error) {
	form, ok := f.forms[id]
	if !ok || form.UserID != userID {
		return repository.Form{}, apperr.NotFound("qualification form not found")
	}
	return form, nil
}

func (f *fakeRepo) ListForms(_ context.Context, userID uuid.UUID) ([]repository.Form, error) {
	out := []repository.Form{}
	for _, form := range f.forms {
		if form.UserID == userID {
			out = append(out, form)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateForm(_ context.Context, userID uuid.UUID, name string, questions []domain.Question) (repository.Form, []domain.Question, error) {
	form := repository.Form{ID: uuid.New(), UserID: userID, Name: name, QuestionCount: len(questions)}
	f.forms[form.ID] = form
	created := make([]domain.Question, 0, len(questions))
	for i, q := range questions {
		q.FormID = &form.ID
		q.QuestionOrder = i
		created = append(created, f.addQuestion(q))
	}
	return form, created, nil
}

func (f *fakeRepo) RenameForm(_ context.Context, id, userID uuid.UUID, name string) (repository.Form, error) {
	form, ok := f.forms[id]
	if !ok || form.UserID != userID {
		return repository.Form{}, apperr.NotFound("qualification form not found")
	}
	form.Name = name
	f.forms[id] = form
	return form, nil
}

func (f *fakeRepo) DeleteForm(_ context.Context, id, userID uuid.UUID) error {
	if _, err := f.GetForm(context.Background(), id, userID); err != nil {
		return err
	}
	delete(f.forms, id)
	return nil
}

type fakeFunnels map[uuid.UUID]FunnelRef

func (f fakeFunnels) GetFunnelRef(_ context.Context, id uuid.UUID) (FunnelRef, error) {
	ref, ok := f[id]
	if !ok {
		return FunnelRef{}, apperr.NotFound(funnelNotFoundMsg)
	}
	return ref, nil
}

func newTestService(t *testing.T, repo *fakeRepo, funnels fakeFunnels) *Service {
	t.Helper()
	catalog, err := LoadTemplateCatalog()
	if err != nil {
		t.Fatalf("load catalogue: %v", err)
	}
	svc := New(repo, catalog, logger.Discard())
	svc.SetFunnelLookup(funnels)
	return svc
}

func boolPtr(b bool) *bool { return &b }

func TestResolveQuestionsPrefersAttachedForm(t *testing.T) {
	repo := newFakeRepo()
	funnelID, formID := uuid.New(), uuid.New()
	legacy := repo.addQuestion(domain.Question{FunnelPageID: &funnelID, QuestionText: "Legacy?", AnswerType: domain.AnswerTypeYesNo, QualifyingAnswer: boolPtr(true)})
	second := repo.addQuestion(domain.Question{FormID: &formID, QuestionText: "Second", QuestionOrder: 2, AnswerType: domain.AnswerTypeYesNo})
	first := repo.addQuestion(domain.Question{FormID: &formID, QuestionText: "First", QuestionOrder: 1, AnswerType: domain.AnswerTypeYesNo})

	svc := newTestService(t, repo, fakeFunnels{})

	got, err := svc.ResolveQuestions(context.Background(), funnelID, &formID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 2 || got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("expected form questions in order, got %+v", got)
	}
	for _, q := range got {
		if q.ID == legacy.ID {
			t.Fatal("legacy question leaked into form resolution")
		}
	}

	got, err = svc.ResolveQuestions(context.Background(), funnelID, nil)
	if err != nil {
		t.Fatalf("resolve legacy: %v", err)
	}
	if len(got) != 1 || got[0].ID != legacy.ID {
		t.Fatalf("expected legacy question, got %+v", got)
	}
}

func TestResolveQuestionsEmptyIsNotAnError(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), fakeFunnels{})
	got, err := svc.ResolveQuestions(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no questions, got %d", len(got))
	}
}

func TestResolveQuestionsSurfacesStorageErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("connection reset")
	svc := newTestService(t, repo, fakeFunnels{})

	_, err := svc.ResolveQuestions(context.Background(), uuid.New(), nil)
	if err == nil || apperr.GetKind(err) != apperr.KindUnknown {
		t.Fatalf("expected untyped error surfaced as server error, got %v", err)
	}
}

func TestPublicQuestionsRequiresPublishedFunnel(t *testing.T) {
	repo := newFakeRepo()
	draftID, liveID := uuid.New(), uuid.New()
	repo.addQuestion(domain.Question{FunnelPageID: &liveID, QuestionText: "Ready?", AnswerType: domain.AnswerTypeYesNo, QualifyingAnswer: boolPtr(true)})
	svc := newTestService(t, repo, fakeFunnels{
		draftID: {ID: draftID, Published: false},
		liveID:  {ID: liveID, Published: true},
	})

	if _, err := svc.PublicQuestions(context.Background(), draftID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for draft funnel, got %v", err)
	}
	if _, err := svc.PublicQuestions(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for missing funnel, got %v", err)
	}

	resp, err := svc.PublicQuestions(context.Background(), liveID)
	if err != nil {
		t.Fatalf("public questions: %v", err)
	}
	if len(resp.Questions) != 1 || resp.Questions[0].QuestionText != "Ready?" {
		t.Fatalf("unexpected public questions %+v", resp.Questions)
	}
}

func TestCreateFunnelQuestionChecksOwnership(t *testing.T) {
	repo := newFakeRepo()
	owner, stranger, funnelID := uuid.New(), uuid.New(), uuid.New()
	svc := newTestService(t, repo, fakeFunnels{funnelID: {ID: funnelID, OwnerID: owner}})

	req := transport.QuestionRequest{QuestionText: "Do you have budget?"}
	if _, err := svc.CreateFunnelQuestion(context.Background(), stranger, funnelID, req); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}

	resp, err := svc.CreateFunnelQuestion(context.Background(), owner, funnelID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.AnswerType != domain.AnswerTypeYesNo || resp.QualifyingAnswer == nil || !*resp.QualifyingAnswer {
		t.Fatalf("expected yes/no question gating on yes, got %+v", resp)
	}
}

func TestBuildQuestionValidation(t *testing.T) {
	cases := []struct {
		name string
		req  transport.QuestionRequest
	}{
		{"blank text", transport.QuestionRequest{QuestionText: "<b></b>"}},
		{"choice without options", transport.QuestionRequest{QuestionText: "Pick", AnswerType: domain.AnswerTypeMultipleChoice, Options: []string{"One"}}},
	}
	for _, tc := range cases {
		if _, err := buildQuestion(tc.req, 0); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	q, err := buildQuestion(transport.QuestionRequest{QuestionText: "Tell us more", AnswerType: domain.AnswerTypeText, QualifyingAnswer: boolPtr(true)}, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.QualifyingAnswer != nil || q.QuestionOrder != 3 {
		t.Fatalf("expected text question without gate at order 3, got %+v", q)
	}
}

func TestReorderReportsPerItemOutcome(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	form, questions, _ := repo.CreateForm(context.Background(), owner, "Screening", []domain.Question{
		{QuestionText: "A", AnswerType: domain.AnswerTypeYesNo},
		{QuestionText: "B", AnswerType: domain.AnswerTypeYesNo},
	})
	broken := questions[1].ID
	repo.orderErr[broken] = errors.New("deadlock detected")
	svc := newTestService(t, repo, fakeFunnels{})

	resp, err := svc.ReorderFormQuestions(context.Background(), owner, form.ID, transport.ReorderRequest{Items: []transport.ReorderItem{
		{ID: questions[0].ID, QuestionOrder: 5},
		{ID: broken, QuestionOrder: 0},
		{ID: uuid.New(), QuestionOrder: 1},
	}})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if resp.Updated != 1 || resp.Failed != 2 {
		t.Fatalf("expected 1 updated and 2 failed, got %+v", resp)
	}
	if !resp.Results[0].Success || resp.Results[1].Success || resp.Results[2].Error != "question not found" {
		t.Fatalf("unexpected per-item results %+v", resp.Results)
	}
	if repo.questions[questions[0].ID].QuestionOrder != 5 {
		t.Fatal("successful item was not persisted")
	}
}

func TestDeleteFormQuestionScopedToForm(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	formA, questionsA, _ := repo.CreateForm(context.Background(), owner, "A", []domain.Question{{QuestionText: "A1", AnswerType: domain.AnswerTypeYesNo}})
	formB, _, _ := repo.CreateForm(context.Background(), owner, "B", nil)
	svc := newTestService(t, repo, fakeFunnels{})

	if err := svc.DeleteFormQuestion(context.Background(), owner, formB.ID, questionsA[0].ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found across forms, got %v", err)
	}
	if err := svc.DeleteFormQuestion(context.Background(), owner, formA.ID, questionsA[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.questions[questionsA[0].ID]; ok {
		t.Fatal("question still present")
	}
}

func TestCreateFormFromTemplate(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	svc := newTestService(t, repo, fakeFunnels{})

	resp, err := svc.CreateFormFromTemplate(context.Background(), owner, transport.FromTemplateRequest{TemplateKey: "coaching-discovery"})
	if err != nil {
		t.Fatalf("from template: %v", err)
	}
	if resp.Name != "Coaching discovery call" || resp.QuestionCount != 4 {
		t.Fatalf("unexpected form %+v", resp)
	}
	if resp.Questions[3].QualifyingAnswer != nil {
		t.Fatal("textarea template question must not gate")
	}

	if _, err := svc.CreateFormFromTemplate(context.Background(), owner, transport.FromTemplateRequest{TemplateKey: "missing"}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown template, got %v", err)
	}
}

func TestFormOwned(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	form, _, _ := repo.CreateForm(context.Background(), owner, "Mine", nil)
	svc := newTestService(t, repo, fakeFunnels{})

	if ok, err := svc.FormOwned(context.Background(), form.ID, owner); err != nil || !ok {
		t.Fatalf("expected owner to own form, got %v %v", ok, err)
	}
	if ok, err := svc.FormOwned(context.Background(), form.ID, uuid.New()); err != nil || ok {
		t.Fatalf("expected stranger not to own form, got %v %v", ok, err)
	}
}
