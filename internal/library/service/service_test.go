package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"magnetlab_backend/internal/adapters/storage"
	"magnetlab_backend/internal/library/repository"
	"magnetlab_backend/internal/library/transport"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	resources map[uuid.UUID]repository.Resource
	clickErr  error
	clicks    map[uuid.UUID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{resources: map[uuid.UUID]repository.Resource{}, clicks: map[uuid.UUID]int{}}
}

func (f *fakeRepo) List(_ context.Context, userID uuid.UUID) ([]repository.Resource, error) {
	var out []repository.Resource
	for _, r := range f.resources {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetOwned(_ context.Context, id, userID uuid.UUID) (repository.Resource, error) {
	r, ok := f.resources[id]
	if !ok || r.UserID != userID {
		return repository.Resource{}, apperr.NotFound("resource not found")
	}
	return r, nil
}

func (f *fakeRepo) Create(_ context.Context, res repository.Resource) (repository.Resource, error) {
	res.ID = uuid.New()
	res.CreatedAt = time.Now()
	f.resources[res.ID] = res
	return res, nil
}

func (f *fakeRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	if _, err := f.GetOwned(context.Background(), id, userID); err != nil {
		return err
	}
	delete(f.resources, id)
	return nil
}

func (f *fakeRepo) IncrementClicks(_ context.Context, id uuid.UUID) error {
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks[id]++
	return nil
}

type fakeStore struct {
	deleted []string
	folder  string
}

func (f *fakeStore) GenerateUploadURL(_ context.Context, bucket, folder, fileName, _ string, _ int64) (*storage.PresignedURL, error) {
	f.folder = folder
	return &storage.PresignedURL{URL: "https://s3.example/" + bucket, FileKey: folder + "/" + fileName}, nil
}

func (f *fakeStore) DeleteObject(_ context.Context, _, fileKey string) error {
	f.deleted = append(f.deleted, fileKey)
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateLinkRequiresURL(t *testing.T) {
	svc := New(newFakeRepo(), nil, "resources", logger.Discard())
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, transport.CreateResourceRequest{Title: "Guide", ResourceType: repository.TypeLink})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	res, err := svc.Create(context.Background(), owner, transport.CreateResourceRequest{
		Title:        "<b>Guide</b>",
		ResourceType: repository.TypeLink,
		URL:          ptr(" https://example.com/guide "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Title != "Guide" || *res.URL != "https://example.com/guide" {
		t.Fatalf("unexpected resource %+v", res)
	}
}

func TestCreateFileMustLiveInOwnerFolder(t *testing.T) {
	store := &fakeStore{}
	svc := New(newFakeRepo(), store, "resources", logger.Discard())
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, transport.CreateResourceRequest{
		Title:        "Checklist",
		ResourceType: repository.TypeFile,
		FileKey:      ptr(uuid.NewString() + "/checklist.pdf"),
	})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for foreign key, got %v", err)
	}

	if _, err := svc.Create(context.Background(), owner, transport.CreateResourceRequest{
		Title:        "Checklist",
		ResourceType: repository.TypeFile,
		FileKey:      ptr(owner.String() + "/checklist.pdf"),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestDeleteFileRemovesObject(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	svc := New(repo, store, "resources", logger.Discard())
	owner := uuid.New()
	key := owner.String() + "/a.pdf"

	res, err := svc.Create(context.Background(), owner, transport.CreateResourceRequest{Title: "A", ResourceType: repository.TypeFile, FileKey: &key})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), uuid.New(), res.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected other owners to get not found, got %v", err)
	}
	if err := svc.Delete(context.Background(), owner, res.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != key {
		t.Fatalf("deleted objects = %v", store.deleted)
	}
}

func TestUploadURL(t *testing.T) {
	owner := uuid.New()
	req := transport.UploadURLRequest{FileName: "guide.pdf", ContentType: "application/pdf", SizeBytes: 10}

	disabled := New(newFakeRepo(), nil, "resources", logger.Discard())
	if _, err := disabled.UploadURL(context.Background(), owner, req); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request without storage, got %v", err)
	}

	store := &fakeStore{}
	svc := New(newFakeRepo(), store, "resources", logger.Discard())
	resp, err := svc.UploadURL(context.Background(), owner, req)
	if err != nil {
		t.Fatalf("upload url: %v", err)
	}
	if store.folder != owner.String() || resp.FileKey != owner.String()+"/guide.pdf" {
		t.Fatalf("unexpected upload target %q %q", store.folder, resp.FileKey)
	}
}

func TestTrackClickSwallowsErrors(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, "resources", logger.Discard())
	id := uuid.New()

	svc.TrackClick(context.Background(), id)
	if repo.clicks[id] != 1 {
		t.Fatalf("clicks = %d", repo.clicks[id])
	}

	repo.clickErr = errors.New("db down")
	svc.TrackClick(context.Background(), id)
}
