package constvars

const (
	GetAppointmentSuccessMessage    = "Successfully retrieved appointment(s)"
	CreateAppointmentSuccessMessage = "Successfully created appointment"
	UpdateAppointmentSuccessMessage = "Successfully updated appointment"
	CancelAppointmentSuccessMessage = "Successfully cancelled appointment"
	PurgeAppointmentSuccessMessage  = "Successfully purged appointment"
)
