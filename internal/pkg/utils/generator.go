package utils

import (
	"appointment-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateAppointmentID() string {
	return uuid.NewString()
}
