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
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type appointmentUsecase struct {
	AppointmentRepository contracts.AppointmentRepository
	RedisRepository       contracts.RedisRepository
	EventPublisher        contracts.AppointmentEventPublisher
	InternalConfig        *config.InternalConfig
	Logger                *zap.Logger
}

func NewAppointmentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	redisRepository contracts.RedisRepository,
	eventPublisher contracts.AppointmentEventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	return &appointmentUsecase{
		AppointmentRepository: appointmentRepository,
		RedisRepository:       redisRepository,
		EventPublisher:        eventPublisher,
		InternalConfig:        internalConfig,
		Logger:                logger,
	}
}

func (uc *appointmentUsecase) FindAll(ctx context.Context, query *requests.AppointmentQuery) ([]responses.Appointment, int64, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	filter := contracts.AppointmentFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status, ok := models.ParseAppointmentStatus(query.Status)
		if !ok {
			return nil, 0, exceptions.ErrAppointmentInvalidStatus(fmt.Errorf("unknown appointment status: %s", query.Status))
		}
		filter.Status = &status
	}

	appointments, total, err := uc.AppointmentRepository.FindAll(ctx, filter)
	if err != nil {
		uc.Logger.Error("appointmentUsecase.FindAll repository failure",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, err
	}

	return toAppointmentResponses(appointments), total, nil
}

func (uc *appointmentUsecase) FindByID(ctx context.Context, appointmentID string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	cacheKey := fmt.Sprintf(constvars.RedisKeyAppointmentFormat, appointmentID)

	if cached, err := uc.RedisRepository.Get(ctx, cacheKey); err == nil && cached != "" {
		response := &responses.Appointment{}
		if unmarshalErr := json.Unmarshal([]byte(cached), response); unmarshalErr == nil {
			return response, nil
		}
		// Corrupt cache entries fall through to the store.
		_ = uc.RedisRepository.Delete(ctx, cacheKey)
	}

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		uc.Logger.Error("appointmentUsecase.FindByID repository failure",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s does not exist", appointmentID))
	}

	response := toAppointmentResponse(appointment)
	uc.cacheAppointment(ctx, requestID, cacheKey, response)
	return response, nil
}

func (uc *appointmentUsecase) CreateAppointment(ctx context.Context, request *requests.CreateAppointmentRequest) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	appointment, err := buildAppointmentModel(request)
	if err != nil {
		return nil, err
	}

	if valid, validationErrors := models.ValidateAppointment(appointment); !valid {
		return nil, exceptions.ErrAppointmentValidation(validationErrors)
	}
	if appointment.Start != nil && appointment.End != nil && !appointment.Start.Before(*appointment.End) {
		return nil, exceptions.ErrStartAfterEnd()
	}
	if _, ok := models.ParseAppointmentStatus(string(appointment.Status)); !ok {
		return nil, exceptions.ErrAppointmentInvalidStatus(fmt.Errorf("unknown appointment status: %s", appointment.Status))
	}

	created, err := uc.AppointmentRepository.Create(ctx, appointment)
	if err != nil {
		uc.Logger.Error("appointmentUsecase.CreateAppointment repository failure",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.publishEvent(ctx, requestID, constvars.EventAppointmentCreated, created)
	return toAppointmentResponse(created), nil
}

func (uc *appointmentUsecase) UpdateAppointment(ctx context.Context, appointmentID string, request *requests.UpdateAppointmentRequest) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	existing, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s does not exist", appointmentID))
	}

	update := contracts.AppointmentUpdate{
		Description:        request.Description,
		MinutesDuration:    request.MinutesDuration,
		Priority:           request.Priority,
		Comment:            request.Comment,
		PatientInstruction: request.PatientInstruction,
	}
	if request.Start != nil {
		start, parseErr := parseOptionalInstant(*request.Start)
		if parseErr != nil {
			return nil, parseErr
		}
		update.Start = start
	}
	if request.End != nil {
		end, parseErr := parseOptionalInstant(*request.End)
		if parseErr != nil {
			return nil, parseErr
		}
		update.End = end
	}
	if request.Participant != nil {
		update.Participants = buildParticipantModels(request.Participant)
	}

	merged := mergeAppointment(existing, update)
	if valid, validationErrors := models.ValidateAppointment(merged); !valid {
		return nil, exceptions.ErrAppointmentValidation(validationErrors)
	}
	if merged.Start != nil && merged.End != nil && !merged.Start.Before(*merged.End) {
		return nil, exceptions.ErrStartAfterEnd()
	}

	updated, err := uc.AppointmentRepository.Update(ctx, appointmentID, update)
	if err != nil {
		uc.Logger.Error("appointmentUsecase.UpdateAppointment repository failure",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s does not exist", appointmentID))
	}

	uc.invalidateCache(ctx, requestID, appointmentID)
	return toAppointmentResponse(updated), nil
}

func (uc *appointmentUsecase) UpdateStatus(ctx context.Context, appointmentID string, newStatus models.AppointmentStatus) (*responses.Appointment, error) {
	return uc.transitionStatus(ctx, appointmentID, newStatus, constvars.EventAppointmentStatusChanged)
}

func (uc *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID string) (*responses.Appointment, error) {
	existing, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s does not exist", appointmentID))
	}

	if !models.CanCancelAppointment(existing.Status) {
		return nil, exceptions.ErrAppointmentNotCancellable(string(existing.Status))
	}

	// A cancellation gets its own event type so downstream consumers can
	// react to it without parsing the target status.
	return uc.transitionStatus(ctx, appointmentID, models.AppointmentStatusCancelled, constvars.EventAppointmentCancelled)
}

func (uc *appointmentUsecase) transitionStatus(ctx context.Context, appointmentID string, newStatus models.AppointmentStatus, eventType string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	existing, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s does not exist", appointmentID))
	}

	if !models.IsValidStatusTransition(existing.Status, newStatus) {
		return nil, exceptions.ErrInvalidStatusTransition(string(existing.Status), string(newStatus))
	}

	updated, err := uc.AppointmentRepository.Update(ctx, appointmentID, contracts.AppointmentUpdate{Status: &newStatus})
	if err != nil {
		uc.Logger.Error("appointmentUsecase.transitionStatus repository failure",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s does not exist", appointmentID))
	}

	uc.invalidateCache(ctx, requestID, appointmentID)
	uc.publishEvent(ctx, requestID, eventType, updated)
	return toAppointmentResponse(updated), nil
}

func (uc *appointmentUsecase) PurgeAppointment(ctx context.Context, appointmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	existed, err := uc.AppointmentRepository.Delete(ctx, appointmentID)
	if err != nil {
		uc.Logger.Error("appointmentUsecase.PurgeAppointment repository failure",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return err
	}
	if !existed {
		return exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s does not exist", appointmentID))
	}

	uc.invalidateCache(ctx, requestID, appointmentID)
	return nil
}

// Seed inserts a sample booked appointment starting tomorrow. It only runs
// against an empty store so restarts never duplicate the sample.
func (uc *appointmentUsecase) Seed(ctx context.Context) error {
	count, err := uc.AppointmentRepository.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	end := start.Add(30 * time.Minute)
	minutes := 30

	seed := &models.Appointment{
		ResourceType:    constvars.FhirResourceTypeAppointment,
		Status:          models.AppointmentStatusBooked,
		Description:     "Initial consultation",
		Start:           &start,
		End:             &end,
		MinutesDuration: &minutes,
		Participants: []models.Participant{
			{
				Actor: models.ActorReference{
					Reference: "Patient/example",
					Type:      "Patient",
					Display:   "Example Patient",
				},
				Required: models.ParticipantRequiredRequired,
				Status:   models.ParticipantStatusAccepted,
			},
			{
				Actor: models.ActorReference{
					Reference: "Practitioner/example",
					Type:      "Practitioner",
					Display:   "Example Practitioner",
				},
				Required: models.ParticipantRequiredRequired,
				Status:   models.ParticipantStatusAccepted,
			},
		},
	}

	if _, err := uc.AppointmentRepository.Create(ctx, seed); err != nil {
		return err
	}

	uc.Logger.Info("appointmentUsecase.Seed inserted sample appointment")
	return nil
}

func (uc *appointmentUsecase) cacheAppointment(ctx context.Context, requestID, cacheKey string, response *responses.Appointment) {
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	ttl := time.Duration(uc.InternalConfig.Appointment.CacheTTLInMinutes) * time.Minute
	if err := uc.RedisRepository.Set(ctx, cacheKey, payload, ttl); err != nil {
		uc.Logger.Warn("appointmentUsecase failed to cache appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}

func (uc *appointmentUsecase) invalidateCache(ctx context.Context, requestID, appointmentID string) {
	cacheKey := fmt.Sprintf(constvars.RedisKeyAppointmentFormat, appointmentID)
	if err := uc.RedisRepository.Delete(ctx, cacheKey); err != nil {
		uc.Logger.Warn("appointmentUsecase failed to invalidate appointment cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
	}
}

// publishEvent is fire-and-forget: a broker fault is logged, never surfaced,
// because the appointment mutation already committed.
func (uc *appointmentUsecase) publishEvent(ctx context.Context, requestID, eventType string, appointment *models.Appointment) {
	if err := uc.EventPublisher.PublishAppointmentEvent(ctx, eventType, appointment); err != nil {
		uc.Logger.Warn("appointmentUsecase failed to publish event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventKey, eventType),
			zap.Error(err),
		)
	}
}

// mergeAppointment projects a partial update onto a copy of the stored
// appointment so the full validator can run against the would-be result.
func mergeAppointment(existing *models.Appointment, update contracts.AppointmentUpdate) *models.Appointment {
	merged := *existing
	if update.Status != nil {
		merged.Status = *update.Status
	}
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if update.Start != nil {
		merged.Start = update.Start
	}
	if update.End != nil {
		merged.End = update.End
	}
	if update.MinutesDuration != nil {
		merged.MinutesDuration = update.MinutesDuration
	}
	if update.Priority != nil {
		merged.Priority = update.Priority
	}
	if update.Comment != nil {
		merged.Comment = *update.Comment
	}
	if update.PatientInstruction != nil {
		merged.PatientInstruction = *update.PatientInstruction
	}
	if update.Participants != nil {
		merged.Participants = update.Participants
	}
	return &merged
}
