package models

import "time"

type AppointmentStatus string

const (
	AppointmentStatusProposed       AppointmentStatus = "proposed"
	AppointmentStatusPending        AppointmentStatus = "pending"
	AppointmentStatusBooked         AppointmentStatus = "booked"
	AppointmentStatusArrived        AppointmentStatus = "arrived"
	AppointmentStatusCheckedIn      AppointmentStatus = "checked-in"
	AppointmentStatusFulfilled      AppointmentStatus = "fulfilled"
	AppointmentStatusCancelled      AppointmentStatus = "cancelled"
	AppointmentStatusNoshow         AppointmentStatus = "noshow"
	AppointmentStatusEnteredInError AppointmentStatus = "entered-in-error"
	AppointmentStatusWaitlist       AppointmentStatus = "waitlist"
)

type ParticipantRequired string

const (
	ParticipantRequiredRequired        ParticipantRequired = "required"
	ParticipantRequiredOptional        ParticipantRequired = "optional"
	ParticipantRequiredInformationOnly ParticipantRequired = "information-only"
)

type ParticipantStatus string

const (
	ParticipantStatusAccepted    ParticipantStatus = "accepted"
	ParticipantStatusDeclined    ParticipantStatus = "declined"
	ParticipantStatusTentative   ParticipantStatus = "tentative"
	ParticipantStatusNeedsAction ParticipantStatus = "needs-action"
)

type Meta struct {
	VersionID   string    `bson:"versionId"`
	LastUpdated time.Time `bson:"lastUpdated"`
}

// ActorReference points at an external entity (patient, practitioner,
// location, ...). The reference string is opaque and never resolved here.
type ActorReference struct {
	Reference string `bson:"reference,omitempty"`
	Type      string `bson:"type,omitempty"`
	Display   string `bson:"display,omitempty"`
}

// Participant rows live in their own collection, keyed back to the owning
// appointment. The set is always replaced as a unit, never patched in place.
type Participant struct {
	ID            string              `bson:"_id,omitempty"`
	AppointmentID string              `bson:"appointmentId"`
	Position      int                 `bson:"position"`
	Actor         ActorReference      `bson:"actor,omitempty"`
	Required      ParticipantRequired `bson:"required,omitempty"`
	Status        ParticipantStatus   `bson:"status"`
	TimeModel     `bson:",inline"`
}

type Appointment struct {
	ID                 string            `bson:"_id,omitempty"`
	ResourceType       string            `bson:"resourceType"`
	Meta               Meta              `bson:"meta"`
	Status             AppointmentStatus `bson:"status"`
	Description        string            `bson:"description,omitempty"`
	Start              *time.Time        `bson:"start,omitempty"`
	End                *time.Time        `bson:"end,omitempty"`
	MinutesDuration    *int              `bson:"minutesDuration,omitempty"`
	Priority           *int              `bson:"priority,omitempty"`
	Comment            string            `bson:"comment,omitempty"`
	PatientInstruction string            `bson:"patientInstruction,omitempty"`
	Participants       []Participant     `bson:"-"`
	TimeModel          `bson:",inline"`
}

type TimeModel struct {
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

var appointmentStatuses = map[AppointmentStatus]struct{}{
	AppointmentStatusProposed:       {},
	AppointmentStatusPending:        {},
	AppointmentStatusBooked:         {},
	AppointmentStatusArrived:        {},
	AppointmentStatusCheckedIn:      {},
	AppointmentStatusFulfilled:      {},
	AppointmentStatusCancelled:      {},
	AppointmentStatusNoshow:         {},
	AppointmentStatusEnteredInError: {},
	AppointmentStatusWaitlist:       {},
}

// ParseAppointmentStatus guards the boundary between raw payload strings and
// the closed enum the status machine is total over.
func ParseAppointmentStatus(raw string) (AppointmentStatus, bool) {
	status := AppointmentStatus(raw)
	_, ok := appointmentStatuses[status]
	return status, ok
}
