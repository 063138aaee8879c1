package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/searxng-tools/utils/platformerrors"
)

type ErrorResponse struct {
	Code          string `json:"code,omitempty"` // UUID from PlatformError
	Error         string `json:"error"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// UpstreamErrorResponse is returned with status 200 when the metasearch
// engine or a fetched site failed. The request itself was valid.
type UpstreamErrorResponse struct {
	Error      string `json:"error"`
	URL        string `json:"url,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Code       string `json:"code,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses.
// Validation errors become 400, upstream failures are reported in a 200
// body, everything else is a 500.
func HandleError(reqCtx *gin.Context, err error) {
	var domainErr *platformerrors.PlatformError
	if !errors.As(err, &domainErr) {
		reqCtx.Error(err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:         err.Error(),
			ErrorInstance: err,
		})
		return
	}

	reqCtx.Error(domainErr)
	if domainErr.GetErrorType() == platformerrors.ErrorTypeExternal {
		body := UpstreamErrorResponse{
			Error:     domainErr.Error(),
			URL:       domainErr.URL(),
			Code:      domainErr.GetUUID(),
			RequestID: domainErr.GetRequestID(),
		}
		if code, ok := domainErr.StatusCode(); ok {
			body.StatusCode = code
		}
		reqCtx.AbortWithStatusJSON(http.StatusOK, body)
		return
	}

	statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())
	reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
		Code:          domainErr.GetUUID(),
		Error:         domainErr.Message,
		ErrorInstance: domainErr,
		RequestID:     domainErr.GetRequestID(),
	})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil)
	statusCode := platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType())

	reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	})
}

type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service,omitempty" example:"searxng-tools"`
}
