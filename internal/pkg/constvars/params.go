package constvars

const (
	URLParamAppointmentID = "appointmentID"
)

const (
	QueryParamStatus   = "status"
	QueryParamPage     = "page"
	QueryParamPageSize = "pageSize"
)
