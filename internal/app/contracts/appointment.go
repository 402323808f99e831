package contracts

import (
	"appointment-service/internal/app/models"
	"appointment-service/internal/pkg/dto/requests"
	"appointment-service/internal/pkg/dto/responses"
	"context"
	"time"
)

type AppointmentUsecase interface {
	FindAll(ctx context.Context, query *requests.AppointmentQuery) ([]responses.Appointment, int64, error)
	FindByID(ctx context.Context, appointmentID string) (*responses.Appointment, error)
	CreateAppointment(ctx context.Context, request *requests.CreateAppointmentRequest) (*responses.Appointment, error)
	UpdateAppointment(ctx context.Context, appointmentID string, request *requests.UpdateAppointmentRequest) (*responses.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID string, newStatus models.AppointmentStatus) (*responses.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID string) (*responses.Appointment, error)
	PurgeAppointment(ctx context.Context, appointmentID string) error
	Seed(ctx context.Context) error
}

// AppointmentFilter narrows and pages a repository scan. Page starts at 1;
// PageSize is clamped by the repository regardless of what callers pass.
type AppointmentFilter struct {
	Status   *models.AppointmentStatus
	Page     int
	PageSize int
}

// AppointmentUpdate is a partial header update. Nil pointers leave the field
// untouched; a non-nil Participants slice replaces the whole participant set.
type AppointmentUpdate struct {
	Status             *models.AppointmentStatus
	Description        *string
	Start              *time.Time
	End                *time.Time
	MinutesDuration    *int
	Priority           *int
	Comment            *string
	PatientInstruction *string
	Participants       []models.Participant
}

// AppointmentRepository is the store boundary: every multi-document mutation
// (header plus participant rows) commits or aborts as one atomic unit.
// FindByID and Update signal a missing appointment with a nil result and nil
// error; infrastructure faults are the only errors they return.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error)
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindAll(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, int64, error)
	Update(ctx context.Context, appointmentID string, update AppointmentUpdate) (*models.Appointment, error)
	Delete(ctx context.Context, appointmentID string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
