package utils

import (
	"appointment-service/internal/pkg/constvars"
	"appointment-service/internal/pkg/dto/requests"
	"net/http"
	"strconv"
)

// BuildAppointmentQuery parses list-endpoint query parameters with defaults
// applied. The page size clamp here is defensive; the repository enforces the
// same ceiling and is the final authority.
func BuildAppointmentQuery(r *http.Request) *requests.AppointmentQuery {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get(constvars.QueryParamPage))
	if err != nil || page <= 0 {
		page = constvars.AppointmentDefaultPage
	}

	pageSize, err := strconv.Atoi(query.Get(constvars.QueryParamPageSize))
	if err != nil || pageSize <= 0 {
		pageSize = constvars.AppointmentDefaultPageSize
	}
	if pageSize > constvars.AppointmentMaxPageSize {
		pageSize = constvars.AppointmentMaxPageSize
	}

	return &requests.AppointmentQuery{
		Status:   query.Get(constvars.QueryParamStatus),
		Page:     page,
		PageSize: pageSize,
	}
}
