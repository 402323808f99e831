package appointments

import (
	"appointment-service/internal/app/config"
	"appointment-service/internal/app/contracts"
	"appointment-service/internal/app/models"
	"appointment-service/internal/pkg/constvars"
	"appointment-service/internal/pkg/dto/requests"
	"appointment-service/internal/pkg/dto/responses"
	"appointment-service/internal/pkg/exceptions"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockAppointmentRepository struct {
	mock.Mock
}

func (m *mockAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	args := m.Called(ctx, appointment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *mockAppointmentRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *mockAppointmentRepository) FindAll(ctx context.Context, filter contracts.AppointmentFilter) ([]models.Appointment, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *mockAppointmentRepository) Update(ctx context.Context, appointmentID string, update contracts.AppointmentUpdate) (*models.Appointment, error) {
	args := m.Called(ctx, appointmentID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *mockAppointmentRepository) Delete(ctx context.Context, appointmentID string) (bool, error) {
	args := m.Called(ctx, appointmentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockRedisRepository struct {
	mock.Mock
}

func (m *mockRedisRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *mockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishAppointmentEvent(ctx context.Context, eventType string, appointment *models.Appointment) error {
	args := m.Called(ctx, eventType, appointment)
	return args.Error(0)
}

func newTestUsecase(repo *mockAppointmentRepository, cache *mockRedisRepository, publisher *mockEventPublisher) contracts.AppointmentUsecase {
	internalConfig := &config.InternalConfig{
		Appointment: config.Appointment{CacheTTLInMinutes: 5, EventQueue: "appointment-events"},
	}
	return NewAppointmentUsecase(repo, cache, publisher, internalConfig, zap.NewNop())
}

func storedAppointment(status models.AppointmentStatus) *models.Appointment {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	return &models.Appointment{
		ID:           "appt-1",
		ResourceType: constvars.FhirResourceTypeAppointment,
		Meta:         models.Meta{VersionID: "1", LastUpdated: start},
		Status:       status,
		Start:        &start,
		End:          &end,
		Participants: []models.Participant{
			{
				ID:            "part-1",
				AppointmentID: "appt-1",
				Actor:         models.ActorReference{Reference: "Patient/1", Type: "Patient"},
				Status:        models.ParticipantStatusAccepted,
			},
		},
	}
}

func createRequest() *requests.CreateAppointmentRequest {
	return &requests.CreateAppointmentRequest{
		ResourceType: "Appointment",
		Status:       "booked",
		Start:        "2026-09-01T09:00:00Z",
		End:          "2026-09-01T09:30:00Z",
		Participant: []requests.AppointmentParticipant{
			{
				Actor:  requests.ActorReference{Reference: "Patient/1", Type: "Patient"},
				Status: "accepted",
			},
		},
	}
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and publishes lifecycle event", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		publisher := &mockEventPublisher{}
		uc := newTestUsecase(repo, cache, publisher)

		stored := storedAppointment(models.AppointmentStatusBooked)
		repo.On("Create", mock.Anything, mock.Anything).Return(stored, nil)
		publisher.On("PublishAppointmentEvent", mock.Anything, constvars.EventAppointmentCreated, stored).Return(nil)

		response, err := uc.CreateAppointment(ctx, createRequest())
		assert.NoError(t, err)
		assert.Equal(t, "appt-1", response.ID)
		assert.Equal(t, "1", response.Meta.VersionID)
		assert.Equal(t, "booked", response.Status)
		assert.Len(t, response.Participant, 1)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("accumulates every validation failure", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		request := createRequest()
		request.Status = ""
		request.Participant = nil

		_, err := uc.CreateAppointment(ctx, request)
		assert.Error(t, err)

		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
		assert.Contains(t, customErr.Errors, "status is required")
		assert.Contains(t, customErr.Errors, "At least one participant is required")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects start at or after end", func(t *testing.T) {
		uc := newTestUsecase(&mockAppointmentRepository{}, &mockRedisRepository{}, &mockEventPublisher{})

		request := createRequest()
		request.Start = "2026-09-01T10:00:00Z"
		request.End = "2026-09-01T09:30:00Z"

		_, err := uc.CreateAppointment(ctx, request)
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.ErrClientStartMustBeBeforeEnd, customErr.ClientMessage)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		uc := newTestUsecase(&mockAppointmentRepository{}, &mockRedisRepository{}, &mockEventPublisher{})

		request := createRequest()
		request.Status = "confirmed"

		_, err := uc.CreateAppointment(ctx, request)
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
	})

	t.Run("broker failure does not fail the create", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		publisher := &mockEventPublisher{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, publisher)

		stored := storedAppointment(models.AppointmentStatusBooked)
		repo.On("Create", mock.Anything, mock.Anything).Return(stored, nil)
		publisher.On("PublishAppointmentEvent", mock.Anything, constvars.EventAppointmentCreated, stored).
			Return(errors.New("broker down"))

		response, err := uc.CreateAppointment(ctx, createRequest())
		assert.NoError(t, err)
		assert.Equal(t, "appt-1", response.ID)
	})
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	cacheKey := "appointment:appt-1"

	t.Run("cache hit skips the store", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		uc := newTestUsecase(repo, cache, &mockEventPublisher{})

		cached, err := json.Marshal(&responses.Appointment{ID: "appt-1", Status: "booked"})
		assert.NoError(t, err)
		cache.On("Get", mock.Anything, cacheKey).Return(string(cached), nil)

		response, err := uc.FindByID(ctx, "appt-1")
		assert.NoError(t, err)
		assert.Equal(t, "appt-1", response.ID)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss reads through and fills the cache", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		uc := newTestUsecase(repo, cache, &mockEventPublisher{})

		cache.On("Get", mock.Anything, cacheKey).Return("", nil)
		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusBooked), nil)
		cache.On("Set", mock.Anything, cacheKey, mock.Anything, 5*time.Minute).Return(nil)

		response, err := uc.FindByID(ctx, "appt-1")
		assert.NoError(t, err)
		assert.Equal(t, "booked", response.Status)
		cache.AssertExpectations(t)
	})

	t.Run("missing appointment is 404", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		uc := newTestUsecase(repo, cache, &mockEventPublisher{})

		cache.On("Get", mock.Anything, cacheKey).Return("", nil)
		repo.On("FindByID", mock.Anything, "appt-1").Return(nil, nil)

		_, err := uc.FindByID(ctx, "appt-1")
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusNotFound, customErr.StatusCode)
	})
}

func TestFindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("passes status filter and window to the store", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		booked := models.AppointmentStatusBooked
		expectedFilter := contracts.AppointmentFilter{Status: &booked, Page: 2, PageSize: 10}
		repo.On("FindAll", mock.Anything, expectedFilter).
			Return([]models.Appointment{*storedAppointment(booked)}, int64(31), nil)

		response, total, err := uc.FindAll(ctx, &requests.AppointmentQuery{Status: "booked", Page: 2, PageSize: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(31), total)
		assert.Len(t, response, 1)
		repo.AssertExpectations(t)
	})

	t.Run("unknown status filter is rejected before the store", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		_, _, err := uc.FindAll(ctx, &requests.AppointmentQuery{Status: "confirmed"})
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
		repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition updates, invalidates cache and publishes", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		publisher := &mockEventPublisher{}
		uc := newTestUsecase(repo, cache, publisher)

		arrived := models.AppointmentStatusArrived
		updated := storedAppointment(arrived)
		updated.Meta.VersionID = "2"

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusBooked), nil)
		repo.On("Update", mock.Anything, "appt-1", contracts.AppointmentUpdate{Status: &arrived}).Return(updated, nil)
		cache.On("Delete", mock.Anything, "appointment:appt-1").Return(nil)
		publisher.On("PublishAppointmentEvent", mock.Anything, constvars.EventAppointmentStatusChanged, updated).Return(nil)

		response, err := uc.UpdateStatus(ctx, "appt-1", arrived)
		assert.NoError(t, err)
		assert.Equal(t, "arrived", response.Status)
		assert.Equal(t, "2", response.Meta.VersionID)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("invalid transition names both states", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusBooked), nil)

		_, err := uc.UpdateStatus(ctx, "appt-1", models.AppointmentStatusProposed)
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, "Invalid status transition from booked to proposed", customErr.ClientMessage)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("terminal state accepts nothing", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusFulfilled), nil)

		_, err := uc.UpdateStatus(ctx, "appt-1", models.AppointmentStatusBooked)
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
	})

	t.Run("missing appointment is 404", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("FindByID", mock.Anything, "appt-404").Return(nil, nil)

		_, err := uc.UpdateStatus(ctx, "appt-404", models.AppointmentStatusBooked)
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusNotFound, customErr.StatusCode)
	})
}

func TestStatusLifecycleWalk(t *testing.T) {
	ctx := context.Background()

	// proposed cannot jump straight to fulfilled; it must advance through
	// pending and booked, and booked still has no direct fulfilled edge.
	current := models.AppointmentStatusProposed
	steps := []struct {
		target  models.AppointmentStatus
		allowed bool
	}{
		{models.AppointmentStatusFulfilled, false},
		{models.AppointmentStatusPending, true},
		{models.AppointmentStatusBooked, true},
		{models.AppointmentStatusFulfilled, false},
	}

	for _, step := range steps {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		publisher := &mockEventPublisher{}
		uc := newTestUsecase(repo, cache, publisher)

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(current), nil)
		if step.allowed {
			updated := storedAppointment(step.target)
			repo.On("Update", mock.Anything, "appt-1", contracts.AppointmentUpdate{Status: &step.target}).Return(updated, nil)
			cache.On("Delete", mock.Anything, "appointment:appt-1").Return(nil)
			publisher.On("PublishAppointmentEvent", mock.Anything, constvars.EventAppointmentStatusChanged, updated).Return(nil)
		}

		response, err := uc.UpdateStatus(ctx, "appt-1", step.target)
		if step.allowed {
			assert.NoErrorf(t, err, "transition %s -> %s should be accepted", current, step.target)
			assert.Equal(t, string(step.target), response.Status)
			current = step.target
		} else {
			assert.Errorf(t, err, "transition %s -> %s should be rejected", current, step.target)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		}
	}
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("cancellable appointment transitions to cancelled", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		publisher := &mockEventPublisher{}
		uc := newTestUsecase(repo, cache, publisher)

		cancelled := models.AppointmentStatusCancelled
		updated := storedAppointment(cancelled)
		updated.Meta.VersionID = "2"

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusBooked), nil)
		repo.On("Update", mock.Anything, "appt-1", contracts.AppointmentUpdate{Status: &cancelled}).Return(updated, nil)
		cache.On("Delete", mock.Anything, "appointment:appt-1").Return(nil)
		publisher.On("PublishAppointmentEvent", mock.Anything, constvars.EventAppointmentCancelled, updated).Return(nil)

		response, err := uc.CancelAppointment(ctx, "appt-1")
		assert.NoError(t, err)
		assert.Equal(t, "cancelled", response.Status)
		publisher.AssertCalled(t, "PublishAppointmentEvent", mock.Anything, constvars.EventAppointmentCancelled, updated)
		publisher.AssertNotCalled(t, "PublishAppointmentEvent", mock.Anything, constvars.EventAppointmentStatusChanged, mock.Anything)
	})

	t.Run("terminal appointment cannot be cancelled", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusNoshow), nil)

		_, err := uc.CancelAppointment(ctx, "appt-1")
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, "Cannot cancel appointment with status noshow", customErr.ClientMessage)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelling twice fails the second time", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusCancelled), nil)

		_, err := uc.CancelAppointment(ctx, "appt-1")
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
	})
}

func TestUpdateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("merged result is validated before writing", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusBooked), nil)

		// Replacing the participant set with an empty one must be rejected.
		_, err := uc.UpdateAppointment(ctx, "appt-1", &requests.UpdateAppointmentRequest{
			Participant: []requests.AppointmentParticipant{},
		})
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Contains(t, customErr.Errors, "At least one participant is required")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("header fields update and cache is invalidated", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		uc := newTestUsecase(repo, cache, &mockEventPublisher{})

		description := "rescheduled follow-up"
		updated := storedAppointment(models.AppointmentStatusBooked)
		updated.Description = description
		updated.Meta.VersionID = "2"

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusBooked), nil)
		repo.On("Update", mock.Anything, "appt-1", mock.MatchedBy(func(update contracts.AppointmentUpdate) bool {
			return update.Description != nil && *update.Description == description && update.Status == nil
		})).Return(updated, nil)
		cache.On("Delete", mock.Anything, "appointment:appt-1").Return(nil)

		response, err := uc.UpdateAppointment(ctx, "appt-1", &requests.UpdateAppointmentRequest{Description: &description})
		assert.NoError(t, err)
		assert.Equal(t, description, response.Description)
		assert.Equal(t, "2", response.Meta.VersionID)
		cache.AssertExpectations(t)
	})

	t.Run("start after end is rejected on merge", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("FindByID", mock.Anything, "appt-1").Return(storedAppointment(models.AppointmentStatusBooked), nil)

		late := "2026-09-01T11:00:00Z"
		_, err := uc.UpdateAppointment(ctx, "appt-1", &requests.UpdateAppointmentRequest{Start: &late})
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.ErrClientStartMustBeBeforeEnd, customErr.ClientMessage)
	})
}

func TestPurgeAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("purges and drops the cache entry", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		cache := &mockRedisRepository{}
		uc := newTestUsecase(repo, cache, &mockEventPublisher{})

		repo.On("Delete", mock.Anything, "appt-1").Return(true, nil)
		cache.On("Delete", mock.Anything, "appointment:appt-1").Return(nil)

		assert.NoError(t, uc.PurgeAppointment(ctx, "appt-1"))
		cache.AssertExpectations(t)
	})

	t.Run("missing appointment is 404", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("Delete", mock.Anything, "appt-404").Return(false, nil)

		err := uc.PurgeAppointment(ctx, "appt-404")
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusNotFound, customErr.StatusCode)
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("skips when the store already holds appointments", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("Count", mock.Anything).Return(int64(3), nil)

		assert.NoError(t, uc.Seed(ctx))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty store gets one booked sample", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("Count", mock.Anything).Return(int64(0), nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(appointment *models.Appointment) bool {
			return appointment.Status == models.AppointmentStatusBooked &&
				len(appointment.Participants) == 2 &&
				appointment.Start != nil && appointment.End != nil &&
				appointment.End.Sub(*appointment.Start) == 30*time.Minute
		})).Return(storedAppointment(models.AppointmentStatusBooked), nil)

		assert.NoError(t, uc.Seed(ctx))
		repo.AssertExpectations(t)
	})

	t.Run("count failure propagates", func(t *testing.T) {
		repo := &mockAppointmentRepository{}
		uc := newTestUsecase(repo, &mockRedisRepository{}, &mockEventPublisher{})

		repo.On("Count", mock.Anything).Return(int64(0), errors.New("store down"))

		assert.Error(t, uc.Seed(ctx))
	})
}
