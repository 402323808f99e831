package appointments

import (
	"appointment-service/internal/app/models"
	"appointment-service/internal/pkg/constvars"
	"appointment-service/internal/pkg/dto/requests"
	"appointment-service/internal/pkg/dto/responses"
	"appointment-service/internal/pkg/exceptions"
	"appointment-service/internal/pkg/utils"
	"time"
)

func buildAppointmentModel(request *requests.CreateAppointmentRequest) (*models.Appointment, error) {
	start, err := parseOptionalInstant(request.Start)
	if err != nil {
		return nil, exceptions.ErrCannotParseTime(err)
	}
	end, err := parseOptionalInstant(request.End)
	if err != nil {
		return nil, exceptions.ErrCannotParseTime(err)
	}

	resourceType := request.ResourceType
	if resourceType == "" {
		resourceType = constvars.FhirResourceTypeAppointment
	}

	return &models.Appointment{
		ResourceType:       resourceType,
		Status:             models.AppointmentStatus(request.Status),
		Description:        request.Description,
		Start:              start,
		End:                end,
		MinutesDuration:    request.MinutesDuration,
		Priority:           request.Priority,
		Comment:            request.Comment,
		PatientInstruction: request.PatientInstruction,
		Participants:       buildParticipantModels(request.Participant),
	}, nil
}

func buildParticipantModels(participants []requests.AppointmentParticipant) []models.Participant {
	out := make([]models.Participant, 0, len(participants))
	for _, participant := range participants {
		out = append(out, models.Participant{
			Actor: models.ActorReference{
				Reference: participant.Actor.Reference,
				Type:      participant.Actor.Type,
				Display:   participant.Actor.Display,
			},
			Required: models.ParticipantRequired(participant.Required),
			Status:   models.ParticipantStatus(participant.Status),
		})
	}
	return out
}

func parseOptionalInstant(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := utils.ParseFHIRInstant(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func toAppointmentResponse(appointment *models.Appointment) *responses.Appointment {
	response := &responses.Appointment{
		ResourceType: appointment.ResourceType,
		ID:           appointment.ID,
		Meta: responses.Meta{
			VersionID:   appointment.Meta.VersionID,
			LastUpdated: utils.FormatFHIRInstant(appointment.Meta.LastUpdated),
		},
		Status:             string(appointment.Status),
		Description:        appointment.Description,
		MinutesDuration:    appointment.MinutesDuration,
		Priority:           appointment.Priority,
		Comment:            appointment.Comment,
		PatientInstruction: appointment.PatientInstruction,
		Participant:        make([]responses.AppointmentParticipant, 0, len(appointment.Participants)),
	}

	if appointment.Start != nil {
		response.Start = utils.FormatFHIRInstant(*appointment.Start)
	}
	if appointment.End != nil {
		response.End = utils.FormatFHIRInstant(*appointment.End)
	}

	for _, participant := range appointment.Participants {
		response.Participant = append(response.Participant, responses.AppointmentParticipant{
			Actor: responses.Reference{
				Reference: participant.Actor.Reference,
				Type:      participant.Actor.Type,
				Display:   participant.Actor.Display,
			},
			Required: string(participant.Required),
			Status:   string(participant.Status),
		})
	}

	return response
}

func toAppointmentResponses(appointments []models.Appointment) []responses.Appointment {
	out := make([]responses.Appointment, 0, len(appointments))
	for i := range appointments {
		out = append(out, *toAppointmentResponse(&appointments[i]))
	}
	return out
}
