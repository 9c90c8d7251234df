package webhooks

import (
	"context"
	"slices"
	"time"

	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeStore struct {
	endpoints  map[uuid.UUID]Endpoint
	deliveries []Delivery
}

func newFakeStore() *fakeStore {
	return &fakeStore{endpoints: map[uuid.UUID]Endpoint{}}
}

func (f *fakeStore) CreateEndpoint(_ context.Context, ep Endpoint) (Endpoint, error) {
	ep.ID = uuid.New()
	ep.IsActive = true
	ep.CreatedAt = time.Now()
	f.endpoints[ep.ID] = ep
	return ep, nil
}

func (f *fakeStore) ListEndpoints(_ context.Context, userID uuid.UUID) ([]Endpoint, error) {
	var out []Endpoint
	for _, ep := range f.endpoints {
		if ep.UserID == userID {
			out = append(out, ep)
		}
	}
	return out, nil
}

func (f *fakeStore) GetEndpoint(_ context.Context, id uuid.UUID) (Endpoint, error) {
	ep, ok := f.endpoints[id]
	if !ok {
		return Endpoint{}, apperr.NotFound(endpointNotFoundMsg)
	}
	return ep, nil
}

func (f *fakeStore) DeleteEndpoint(_ context.Context, id, userID uuid.UUID) error {
	ep, ok := f.endpoints[id]
	if !ok || ep.UserID != userID {
		return apperr.NotFound(endpointNotFoundMsg)
	}
	delete(f.endpoints, id)
	return nil
}

func (f *fakeStore) ListSubscribed(_ context.Context, userID uuid.UUID, eventType string) ([]Endpoint, error) {
	var out []Endpoint
	for _, ep := range f.endpoints {
		if ep.UserID == userID && ep.IsActive && slices.Contains(ep.EventTypes, eventType) {
			out = append(out, ep)
		}
	}
	return out, nil
}

func (f *fakeStore) RecordDelivery(_ context.Context, d Delivery) error {
	f.deliveries = append(f.deliveries, d)
	return nil
}

func (f *fakeStore) ListDeliveries(_ context.Context, endpointID, _ uuid.UUID, _ int) ([]Delivery, error) {
	var out []Delivery
	for _, d := range f.deliveries {
		if d.EndpointID == endpointID {
			out = append(out, d)
		}
	}
	return out, nil
}
