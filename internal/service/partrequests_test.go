package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakePartRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.PartRequest
}

var _ storage.PartRequestStorage = (*fakePartRequestRepo)(nil)

func newFakePartRequestRepo() *fakePartRequestRepo {
	return &fakePartRequestRepo{requests: make(map[string]*models.PartRequest)}
}

func (f *fakePartRequestRepo) CreatePartRequest(ctx context.Context, req *models.PartRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[req.ID] = req
	return nil
}

func (f *fakePartRequestRepo) GetPartRequestByID(ctx context.Context, id string) (*models.PartRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, storage.ErrPartRequestNotFound
	}
	return req, nil
}

func (f *fakePartRequestRepo) ListPartRequests(ctx context.Context, filter models.PartRequestFilter) ([]*models.PartRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.PartRequest
	for _, req := range f.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.VehicleMake != "" && req.VehicleMake != filter.VehicleMake {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (f *fakePartRequestRepo) UpdatePartRequest(ctx context.Context, req *models.PartRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[req.ID]; !ok {
		return storage.ErrPartRequestNotFound
	}
	f.requests[req.ID] = req
	return nil
}

func (f *fakePartRequestRepo) DeletePartRequest(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[id]; !ok {
		return storage.ErrPartRequestNotFound
	}
	delete(f.requests, id)
	return nil
}

func validRequestInput() service.CreatePartRequestInput {
	return service.CreatePartRequestInput{
		PartName:     "Alternator",
		VehicleMake:  "Toyota",
		VehicleModel: "Corolla",
		VehicleYear:  2018,
		BuyerName:    "Marcia Brown",
		BuyerEmail:   "marcia@example.com",
	}
}

func TestCreatePartRequest_Defaults(t *testing.T) {
	repo := newFakePartRequestRepo()
	svc := service.NewPartRequestService(testLogger(), repo, &fakeNotifier{})

	req, err := svc.CreatePartRequest(context.Background(), validRequestInput())

	assert.NoError(t, err)
	assert.Equal(t, "any", req.Condition)
	assert.Equal(t, "medium", req.Urgency)
	assert.Equal(t, "email", req.PreferredContactMethod)
	assert.Equal(t, models.RequestStatusActive, req.Status)

	expectedExpiry := time.Now().UTC().Add(14 * 24 * time.Hour)
	assert.WithinDuration(t, expectedExpiry, req.ExpiresAt, time.Minute, "requests expire after two weeks")
}

func TestCreatePartRequest_InvalidYear(t *testing.T) {
	repo := newFakePartRequestRepo()
	svc := service.NewPartRequestService(testLogger(), repo, &fakeNotifier{})

	tooOld := validRequestInput()
	tooOld.VehicleYear = 1899
	_, err := svc.CreatePartRequest(context.Background(), tooOld)
	assert.ErrorIs(t, err, service.ErrInvalidVehicleYear)

	tooNew := validRequestInput()
	tooNew.VehicleYear = time.Now().Year() + 2
	_, err = svc.CreatePartRequest(context.Background(), tooNew)
	assert.ErrorIs(t, err, service.ErrInvalidVehicleYear)

	nextYear := validRequestInput()
	nextYear.VehicleYear = time.Now().Year() + 1
	_, err = svc.CreatePartRequest(context.Background(), nextYear)
	assert.NoError(t, err, "next model year is a valid vehicle year")
}

func TestListPartRequests_Stats(t *testing.T) {
	repo := newFakePartRequestRepo()
	svc := service.NewPartRequestService(testLogger(), repo, &fakeNotifier{})

	statuses := []string{
		models.RequestStatusActive, models.RequestStatusActive,
		models.RequestStatusInProgress, models.RequestStatusFulfilled, models.RequestStatusExpired,
	}
	for i, status := range statuses {
		id := orderID(i)
		repo.requests[id] = &models.PartRequest{ID: id, Status: status, VehicleMake: "Honda"}
	}

	list, err := svc.ListPartRequests(context.Background(), models.PartRequestFilter{}, 3, 0)
	assert.NoError(t, err)

	assert.Len(t, list.Requests, 3)
	assert.Equal(t, 5, list.Stats.Total)
	assert.Equal(t, 2, list.Stats.Active)
	assert.Equal(t, 1, list.Stats.InProgress)
	assert.Equal(t, 1, list.Stats.Fulfilled)
	assert.Equal(t, 1, list.Stats.Expired)
	assert.True(t, list.Pagination.HasMore)
}

func TestUpdatePartRequest_Patch(t *testing.T) {
	repo := newFakePartRequestRepo()
	svc := service.NewPartRequestService(testLogger(), repo, &fakeNotifier{})

	repo.requests["req_1"] = &models.PartRequest{ID: "req_1", Status: models.RequestStatusActive, ResponsesCount: 1}

	responses := 4
	req, err := svc.UpdatePartRequest(context.Background(), service.UpdatePartRequestInput{
		ID:             "req_1",
		Status:         models.RequestStatusInProgress,
		ResponsesCount: &responses,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusInProgress, req.Status)
	assert.Equal(t, 4, req.ResponsesCount)

	_, err = svc.UpdatePartRequest(context.Background(), service.UpdatePartRequestInput{ID: "missing"})
	assert.ErrorIs(t, err, service.ErrPartRequestNotFound)
}

func TestDeletePartRequest(t *testing.T) {
	repo := newFakePartRequestRepo()
	svc := service.NewPartRequestService(testLogger(), repo, &fakeNotifier{})

	repo.requests["req_1"] = &models.PartRequest{ID: "req_1"}

	assert.NoError(t, svc.DeletePartRequest(context.Background(), "req_1"))
	assert.ErrorIs(t, svc.DeletePartRequest(context.Background(), "req_1"), service.ErrPartRequestNotFound)
}
