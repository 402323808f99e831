package responses

type Meta struct {
	VersionID   string `json:"versionId"`
	LastUpdated string `json:"lastUpdated"`
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Type      string `json:"type,omitempty"`
	Display   string `json:"display,omitempty"`
}

type AppointmentParticipant struct {
	Actor    Reference `json:"actor,omitempty"`
	Required string    `json:"required,omitempty"`
	Status   string    `json:"status"`
}

type Appointment struct {
	ResourceType       string                   `json:"resourceType"`
	ID                 string                   `json:"id"`
	Meta               Meta                     `json:"meta"`
	Status             string                   `json:"status"`
	Description        string                   `json:"description,omitempty"`
	Start              string                   `json:"start,omitempty"`
	End                string                   `json:"end,omitempty"`
	MinutesDuration    *int                     `json:"minutesDuration,omitempty"`
	Priority           *int                     `json:"priority,omitempty"`
	Comment            string                   `json:"comment,omitempty"`
	PatientInstruction string                   `json:"patientInstruction,omitempty"`
	Participant        []AppointmentParticipant `json:"participant"`
}
