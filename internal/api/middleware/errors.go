package middleware

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError writes err as a JSON error body with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	message := http.StatusText(status)
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	WriteError(resp, message, status)
}

func WriteError(resp *restful.Response, message string, status int) {
	if writeErr := resp.WriteHeaderAndJson(status, ErrorResponse{Error: message}, restful.MIME_JSON); writeErr != nil {
		log.Error().Err(writeErr).Int("status", status).Msg("Failed to write error response")
	}
}

// ServiceErrorHandler renders router errors (404, 405, 415) as JSON.
func ServiceErrorHandler(serviceErr restful.ServiceError, req *restful.Request, resp *restful.Response) {
	var message string
	switch serviceErr.Code {
	case http.StatusMethodNotAllowed:
		message = "Method not allowed"
	case http.StatusNotFound:
		message = "Not found"
	case http.StatusUnsupportedMediaType:
		message = "Unsupported media type"
	default:
		message = http.StatusText(serviceErr.Code)
	}

	for name, values := range serviceErr.Header {
		for _, value := range values {
			resp.AddHeader(name, value)
		}
	}

	WriteError(resp, message, serviceErr.Code)
}
