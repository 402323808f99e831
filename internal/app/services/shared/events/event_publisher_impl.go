package events

import (
	"appointment-service/internal/app/contracts"
	"appointment-service/internal/app/models"
	"appointment-service/internal/pkg/constvars"
	"appointment-service/internal/pkg/exceptions"
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
)

type appointmentEventPayload struct {
	EventType     string `json:"event_type"`
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
	VersionID     string `json:"version_id"`
	OccurredAt    string `json:"occurred_at"`
}

type appointmentEventPublisher struct {
	Channel *amqp091.Channel
	Queue   string
}

func NewAppointmentEventPublisher(rabbitMQConnection *amqp091.Connection, queue string) (contracts.AppointmentEventPublisher, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return nil, err
	}

	return &appointmentEventPublisher{
		Channel: channel,
		Queue:   queue,
	}, nil
}

func (p *appointmentEventPublisher) PublishAppointmentEvent(ctx context.Context, eventType string, appointment *models.Appointment) error {
	payload := appointmentEventPayload{
		EventType:     eventType,
		AppointmentID: appointment.ID,
		Status:        string(appointment.Status),
		VersionID:     appointment.Meta.VersionID,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
	}

	err = p.Channel.PublishWithContext(ctx, "", p.Queue, false, false, message)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.Queue)
	}

	return nil
}
