package utils

import (
	"appointment-service/internal/pkg/constvars"
	"appointment-service/internal/pkg/dto/responses"
	"appointment-service/internal/pkg/exceptions"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildPaginationResponse(total int64, page, pageSize int, baseURL string) *responses.Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	pagination := &responses.Pagination{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}

	if int64(page)*int64(pageSize) < total {
		pagination.NextURL = buildPageURL(baseURL, page+1, pageSize)
	}
	if page > 1 {
		pagination.PrevURL = buildPageURL(baseURL, page-1, pageSize)
	}

	return pagination
}

// buildPageURL rewrites only the page window parameters; any other query
// parameters on the request (such as a status filter) are preserved so the
// next and prev links reproduce the same result set.
func buildPageURL(baseURL string, page, pageSize int) string {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Sprintf(constvars.AppPaginationUrlFormat, baseURL, page, pageSize)
	}

	query := parsed.Query()
	query.Set(constvars.QueryParamPage, strconv.Itoa(page))
	query.Set(constvars.QueryParamPageSize, strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	response := responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	}
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

func BuildSuccessResponseWithPagination(w http.ResponseWriter, code int, message string, pagination *responses.Pagination, data interface{}) {
	response := responses.ResponseDTO{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	}
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	clientMessage := constvars.ErrClientSomethingWrongWithApplication
	var errorList []string

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		code = customErr.StatusCode
		clientMessage = customErr.ClientMessage
		errorList = customErr.Errors
		log.Error(customErr.DevMessage,
			zap.String("file", customErr.Location.File),
			zap.Int("line", customErr.Location.Line),
			zap.String("function_name", customErr.Location.FunctionName),
		)
	} else {
		log.Error(err.Error())
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	response := responses.ResponseDTO{
		Success: false,
		Message: clientMessage,
	}
	if len(errorList) > 0 {
		response.Data = map[string]interface{}{"errors": errorList}
	}
	json.NewEncoder(w).Encode(response)
}
