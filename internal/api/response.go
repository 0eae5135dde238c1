package api

import (
	"net/http"

	"github.com/imvigneshksb/invest/pkg/portfolio"
)

// ErrorResponse is the structured error payload.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// writeErrorResponse maps structured core errors to HTTP statuses.
func writeErrorResponse(w http.ResponseWriter, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}
	if coreErr, ok := err.(*portfolio.Error); ok {
		response.ErrorCode = string(coreErr.Code)
		httpStatus = mapErrorCodeToHTTPStatus(coreErr.Code)
		response.Code = httpStatus
	}
	writeJSON(w, httpStatus, response)
}

func mapErrorCodeToHTTPStatus(code portfolio.ErrorCode) int {
	switch code {
	case portfolio.ErrCodeInvalidInput, portfolio.ErrCodeValidation:
		return http.StatusBadRequest
	case portfolio.ErrCodeNotFound:
		return http.StatusNotFound
	case portfolio.ErrCodeLookup:
		return http.StatusBadGateway
	case portfolio.ErrCodeDatabase, portfolio.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
