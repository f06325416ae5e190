package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

var errInternal = errors.New("internal server error")

// Logger logs every request once the chain has completed.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()

	chain.ProcessFilter(req, resp)

	event := log.Info()
	if resp.StatusCode() >= http.StatusInternalServerError {
		event = log.Warn()
	}
	event.
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("HTTP request")
}

func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("path", req.Request.URL.Path).
				Msg("Recovered from panic")
			HandleError(resp, errInternal, http.StatusInternalServerError)
		}
	}()

	chain.ProcessFilter(req, resp)
}
