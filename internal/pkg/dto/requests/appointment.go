package requests

// ActorReference mirrors the FHIR reference shape; the reference string is an
// opaque pointer, never resolved against another service.
type ActorReference struct {
	Reference string `json:"reference,omitempty"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=Patient Practitioner PractitionerRole RelatedPerson Device HealthcareService Location"`
	Display   string `json:"display,omitempty"`
}

type AppointmentParticipant struct {
	Actor    ActorReference `json:"actor,omitempty"`
	Required string         `json:"required,omitempty" validate:"omitempty,oneof=required optional information-only"`
	Status   string         `json:"status,omitempty" validate:"omitempty,oneof=accepted declined tentative needs-action"`
}

// CreateAppointmentRequest deliberately carries no required-tags on the
// domain fields: presence rules belong to the appointment validator, which
// accumulates every violation instead of failing on the first.
type CreateAppointmentRequest struct {
	ResourceType       string                   `json:"resourceType,omitempty"`
	Status             string                   `json:"status,omitempty"`
	Description        string                   `json:"description,omitempty"`
	Start              string                   `json:"start,omitempty"`
	End                string                   `json:"end,omitempty"`
	MinutesDuration    *int                     `json:"minutesDuration,omitempty" validate:"omitempty,min=1"`
	Priority           *int                     `json:"priority,omitempty" validate:"omitempty,min=0"`
	Comment            string                   `json:"comment,omitempty"`
	PatientInstruction string                   `json:"patientInstruction,omitempty"`
	Participant        []AppointmentParticipant `json:"participant,omitempty"`
}

// UpdateAppointmentRequest applies header field changes; a non-nil
// Participant list replaces the existing set wholesale.
type UpdateAppointmentRequest struct {
	Description        *string                  `json:"description,omitempty"`
	Start              *string                  `json:"start,omitempty"`
	End                *string                  `json:"end,omitempty"`
	MinutesDuration    *int                     `json:"minutesDuration,omitempty" validate:"omitempty,min=1"`
	Priority           *int                     `json:"priority,omitempty" validate:"omitempty,min=0"`
	Comment            *string                  `json:"comment,omitempty"`
	PatientInstruction *string                  `json:"patientInstruction,omitempty"`
	Participant        []AppointmentParticipant `json:"participant,omitempty"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AppointmentQuery struct {
	Status   string
	Page     int
	PageSize int
}
