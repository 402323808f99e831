package contracts

import (
	"appointment-service/internal/app/models"
	"context"
)

// AppointmentEventPublisher emits lifecycle notifications (created,
// status-changed). Publishing is best-effort from the usecase's point of
// view: a broker fault never rolls back a committed appointment.
type AppointmentEventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, eventType string, appointment *models.Appointment) error
}
