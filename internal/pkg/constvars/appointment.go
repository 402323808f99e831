package constvars

const (
	FhirResourceTypeAppointment = "Appointment"
)

const (
	MongoCollectionAppointments = "appointments"
	MongoCollectionParticipants = "participants"
)

const (
	AppointmentDefaultPage     = 1
	AppointmentDefaultPageSize = 20
	AppointmentMaxPageSize     = 100
)

const (
	RedisKeyAppointmentFormat = "appointment:%s"
)

const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status-changed"
	EventAppointmentCancelled     = "appointment.cancelled"
)
