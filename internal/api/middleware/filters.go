package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDHeader    = "X-Request-ID"
	RequestIDAttribute = "request_id"
)

// Logger tags each request with an id and logs it once it completes.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()

	requestID := req.HeaderParameter(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.SetAttribute(RequestIDAttribute, requestID)
	resp.AddHeader(RequestIDHeader, requestID)

	chain.ProcessFilter(req, resp)

	log.Info().
		Str("request_id", requestID).
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
				Bytes("stack", debug.Stack()).
				Str("path", req.Request.URL.Path).
				Msg("Recovered from panic")
			HandleError(resp, fmt.Errorf("internal server error"), http.StatusInternalServerError)
		}
	}()

	chain.ProcessFilter(req, resp)
}

// RequestObserver receives one observation per handled request.
type RequestObserver interface {
	ObserveRequest(method, route, status string, durationSeconds float64)
}

// Metrics must be installed as a WebService filter so the matched route template is known.
func Metrics(observer RequestObserver) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		chain.ProcessFilter(req, resp)

		observer.ObserveRequest(
			req.Request.Method,
			req.SelectedRoutePath(),
			strconv.Itoa(resp.StatusCode()),
			time.Since(start).Seconds(),
		)
	}
}
