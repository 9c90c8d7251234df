package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"magnetlab_backend/internal/funnels/repository"
	"magnetlab_backend/internal/funnels/transport"
	qualdomain "magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type fakeRepo struct {
	pages map[uuid.UUID]repository.FunnelPage
	now   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{pages: map[uuid.UUID]repository.FunnelPage{}, now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.FunnelPage, error) {
	p, ok := f.pages[id]
	if !ok {
		return repository.FunnelPage{}, apperr.NotFound("funnel page not found")
	}
	return p, nil
}

func (f *fakeRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (repository.FunnelPage, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil || p.UserID != userID {
		return repository.FunnelPage{}, apperr.NotFound("funnel page not found")
	}
	return p, nil
}

func (f *fakeRepo) GetPublishedBySlug(_ context.Context, userID uuid.UUID, slug string) (repository.FunnelPage, error) {
	for _, p := range f.pages {
		if p.UserID == userID && p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return repository.FunnelPage{}, apperr.NotFound("funnel page not found")
}

func (f *fakeRepo) List(_ context.Context, userID uuid.UUID) ([]repository.FunnelPage, error) {
	out := []repository.FunnelPage{}
	for _, p := range f.pages {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, page repository.FunnelPage) (repository.FunnelPage, error) {
	for _, p := range f.pages {
		if p.UserID == page.UserID && p.Slug == page.Slug {
			return repository.FunnelPage{}, apperr.Conflict("a funnel page with this slug already exists")
		}
	}
	page.ID = uuid.New()
	page.CreatedAt = f.now
	page.UpdatedAt = f.now
	f.pages[page.ID] = page
	return page, nil
}

func (f *fakeRepo) Update(_ context.Context, page repository.FunnelPage) (repository.FunnelPage, error) {
	f.pages[page.ID] = page
	return page, nil
}

func (f *fakeRepo) SetPublished(ctx context.Context, id, userID uuid.UUID, published bool) (repository.FunnelPage, error) {
	p, err := f.GetOwned(ctx, id, userID)
	if err != nil {
		return repository.FunnelPage{}, err
	}
	p.Published = published
	if published && p.PublishedAt == nil {
		stamp := f.now
		p.PublishedAt = &stamp
	}
	f.pages[id] = p
	return p, nil
}

func (f *fakeRepo) Delete(_ context.Context, id, _ uuid.UUID) error {
	delete(f.pages, id)
	return nil
}

type fakeUsers map[uuid.UUID]string

func (f fakeUsers) GetUsername(_ context.Context, userID uuid.UUID) (*string, error) {
	name, ok := f[userID]
	if !ok {
		return nil, nil
	}
	return &name, nil
}

func (f fakeUsers) FindUserIDByUsername(_ context.Context, username string) (uuid.UUID, error) {
	for id, name := range f {
		if name == username {
			return id, nil
		}
	}
	return uuid.Nil, apperr.NotFound("user not found")
}

type fakeQuestions struct {
	questions []qualdomain.Question
	forms     map[uuid.UUID]uuid.UUID
	err       error
}

func (f fakeQuestions) ResolveQuestions(context.Context, uuid.UUID, *uuid.UUID) ([]qualdomain.Question, error) {
	return f.questions, f.err
}

func (f fakeQuestions) FormOwned(_ context.Context, formID, userID uuid.UUID) (bool, error) {
	return f.forms[formID] == userID, nil
}

type fakeLeads struct{ counts LeadCounts }

func (f fakeLeads) CountByVerdict(context.Context, uuid.UUID) (LeadCounts, error) {
	return f.counts, nil
}

type testConfig struct{}

func (testConfig) GetPublicBaseURL() string { return "https://magnetlab.test/" }

func newTestService(repo *fakeRepo, users fakeUsers, questions fakeQuestions) *Service {
	return New(repo, users, questions, validator.New(), testConfig{}, logger.Discard())
}

func seedPage(repo *fakeRepo, owner uuid.UUID, headline string) repository.FunnelPage {
	page, _ := repo.Create(context.Background(), repository.FunnelPage{UserID: owner, Slug: "free-audit", OptinHeadline: headline})
	return page
}

func TestPublishRequiresUsername(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "Get your free audit")
	svc := newTestService(repo, fakeUsers{}, fakeQuestions{})

	_, err := svc.Publish(context.Background(), owner, page.ID, true)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "username") {
		t.Fatalf("expected guidance about username, got %q", err.Error())
	}
	if repo.pages[page.ID].Published {
		t.Fatal("page must stay unpublished")
	}
}

func TestPublishRequiresHeadline(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "  ")
	svc := newTestService(repo, fakeUsers{owner: "jane"}, fakeQuestions{})

	if _, err := svc.Publish(context.Background(), owner, page.ID, true); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublishNotFoundForOtherOwner(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "Headline")
	svc := newTestService(repo, fakeUsers{owner: "jane"}, fakeQuestions{})

	if _, err := svc.Publish(context.Background(), uuid.New(), page.ID, true); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPublishStampsOnceAndBuildsURL(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "Headline")
	svc := newTestService(repo, fakeUsers{owner: "jane"}, fakeQuestions{})

	first, err := svc.Publish(context.Background(), owner, page.ID, true)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if first.PublicURL == nil || *first.PublicURL != "https://magnetlab.test/p/jane/free-audit" {
		t.Fatalf("unexpected public url %v", first.PublicURL)
	}
	stamped := *first.Funnel.PublishedAt

	repo.now = repo.now.Add(48 * time.Hour)
	again, err := svc.Publish(context.Background(), owner, page.ID, true)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !again.Funnel.PublishedAt.Equal(stamped) {
		t.Fatalf("publishedAt changed from %v to %v", stamped, again.Funnel.PublishedAt)
	}
}

func TestUnpublishHasNoPreconditions(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "")
	page.Published = true
	repo.pages[page.ID] = page
	svc := newTestService(repo, fakeUsers{}, fakeQuestions{})

	resp, err := svc.Publish(context.Background(), owner, page.ID, false)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if resp.Funnel.Published || resp.PublicURL != nil {
		t.Fatalf("expected unpublished page without url, got %+v", resp)
	}
}

func TestCreateDerivesSlugAndChecksForm(t *testing.T) {
	repo := newFakeRepo()
	owner, formID := uuid.New(), uuid.New()
	svc := newTestService(repo, fakeUsers{}, fakeQuestions{forms: map[uuid.UUID]uuid.UUID{formID: owner}})

	resp, err := svc.Create(context.Background(), owner, transport.CreateFunnelRequest{OptinHeadline: "The <b>5-Day</b> LinkedIn Challenge!"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Slug != "the-5-day-linkedin-challenge" || resp.OptinHeadline != "The 5-Day LinkedIn Challenge!" {
		t.Fatalf("unexpected page %+v", resp)
	}

	foreign := uuid.New()
	_, err = svc.Create(context.Background(), owner, transport.CreateFunnelRequest{OptinHeadline: "Other", QualificationFormID: &foreign})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for foreign form, got %v", err)
	}

	if _, err := svc.Create(context.Background(), owner, transport.CreateFunnelRequest{OptinHeadline: "Mine", QualificationFormID: &formID}); err != nil {
		t.Fatalf("create with owned form: %v", err)
	}
}

func TestBulkCreateReportsPerItem(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	svc := newTestService(repo, fakeUsers{}, fakeQuestions{})

	badSlug := "Not A Slug"
	resp := svc.BulkCreate(context.Background(), owner, transport.BulkCreateRequest{Pages: []transport.CreateFunnelRequest{
		{OptinHeadline: "First page"},
		{OptinHeadline: "Bad", Slug: &badSlug},
		{OptinHeadline: "First page"},
		{OptinHeadline: "Third"},
	}})

	if resp.Created != 2 || resp.Failed != 2 {
		t.Fatalf("expected 2 created and 2 failed, got %+v", resp)
	}
	got := make([]bool, 0, len(resp.Results))
	for _, r := range resp.Results {
		got = append(got, r.Success)
	}
	if diff := cmp.Diff([]bool{true, false, false, true}, got); diff != "" {
		t.Fatalf("per-item success mismatch (-want +got):\n%s", diff)
	}
	if resp.Results[2].Error != "a funnel page with this slug already exists" {
		t.Fatalf("expected slug conflict message, got %q", resp.Results[2].Error)
	}
}

func TestStatsCombinesLeadsAndQuestions(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "Headline")
	svc := newTestService(repo, fakeUsers{}, fakeQuestions{questions: make([]qualdomain.Question, 3)})
	svc.SetLeadCounter(fakeLeads{counts: LeadCounts{Total: 10, Qualified: 3, Disqualified: 1, Pending: 6}})

	stats, err := svc.Stats(context.Background(), owner, page.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := &transport.StatsResponse{
		FunnelPageID:      page.ID,
		TotalLeads:        10,
		QualifiedLeads:    3,
		DisqualifiedLeads: 1,
		PendingLeads:      6,
		QualificationRate: 0.75,
		QuestionCount:     3,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsPropagatesErrors(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "Headline")
	svc := newTestService(repo, fakeUsers{}, fakeQuestions{err: errors.New("db down")})

	if _, err := svc.Stats(context.Background(), owner, page.ID); err == nil {
		t.Fatal("expected error")
	}
}

func TestQRCodeRequiresPublishedPage(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "Headline")
	svc := newTestService(repo, fakeUsers{owner: "jane"}, fakeQuestions{})

	if _, err := svc.QRCode(context.Background(), owner, page.ID, 0); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for draft, got %v", err)
	}

	if _, err := svc.Publish(context.Background(), owner, page.ID, true); err != nil {
		t.Fatalf("publish: %v", err)
	}
	png, err := svc.QRCode(context.Background(), owner, page.ID, 64)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Fatal("expected PNG output")
	}
}

func TestPublicPage(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	page := seedPage(repo, owner, "Headline")
	yes := true
	svc := newTestService(repo, fakeUsers{owner: "jane"}, fakeQuestions{questions: []qualdomain.Question{
		{ID: uuid.New(), QuestionText: "Ready?", AnswerType: qualdomain.AnswerTypeYesNo, QualifyingAnswer: &yes},
	}})

	if _, err := svc.PublicPage(context.Background(), "jane", "free-audit"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected draft page to be hidden, got %v", err)
	}
	if _, err := svc.Publish(context.Background(), owner, page.ID, true); err != nil {
		t.Fatalf("publish: %v", err)
	}

	resp, err := svc.PublicPage(context.Background(), "Jane", "free-audit")
	if err != nil {
		t.Fatalf("public page: %v", err)
	}
	if resp.Username != "jane" || len(resp.Questions) != 1 {
		t.Fatalf("unexpected public page %+v", resp)
	}
	if _, err := svc.PublicPage(context.Background(), "nobody", "free-audit"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Free SEO Audit":         "free-seo-audit",
		"  --Hello,   World!-- ": "hello-world",
		"Ünïcode café 2026":      "n-code-caf-2026",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
	if got := Slugify("!!!"); !strings.HasPrefix(got, "funnel-") {
		t.Fatalf("expected random fallback slug, got %q", got)
	}
	if got := Slugify(strings.Repeat("a", 200)); len(got) != maxSlugLength {
		t.Fatalf("expected slug truncated to %d, got %d", maxSlugLength, len(got))
	}
}
