package models

import (
	"appointment-service/internal/pkg/constvars"
	"fmt"
)

// ValidateAppointment checks the structural preconditions on a candidate
// appointment. All violations are accumulated in check order; a violated rule
// is never suppressed by an earlier one.
func ValidateAppointment(appointment *Appointment) (bool, []string) {
	var errors []string

	if appointment.ResourceType != constvars.FhirResourceTypeAppointment {
		errors = append(errors, fmt.Sprintf(`resourceType must be %q`, constvars.FhirResourceTypeAppointment))
	}

	if appointment.Status == "" {
		errors = append(errors, "status is required")
	}

	if len(appointment.Participants) == 0 {
		errors = append(errors, "At least one participant is required")
	} else {
		for index, participant := range appointment.Participants {
			if participant.Status == "" {
				errors = append(errors, fmt.Sprintf("Participant %d must have a status", index))
			}
		}
	}

	return len(errors) == 0, errors
}
