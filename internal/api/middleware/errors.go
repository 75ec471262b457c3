package middleware

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details" description:"Additional error details"`
}

// HandleError writes a JSON error body. Details are only filled for client
// errors; server-side causes stay in the logs.
func HandleError(resp *restful.Response, err error, status int) {
	errorResponse := ErrorResponse{
		Error: http.StatusText(status),
		Code:  status,
	}
	if err != nil && status < http.StatusInternalServerError {
		errorResponse.Details = err.Error()
	}

	_ = resp.WriteHeaderAndEntity(status, errorResponse)
}
