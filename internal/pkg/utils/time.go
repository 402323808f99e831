package utils

import "time"

// FHIR instants are RFC3339 with timezone offset.
func ParseFHIRInstant(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func FormatFHIRInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
