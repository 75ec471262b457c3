package api

//go:generate mockgen -destination=mocks/mock_pipeline.go -package=mocks . Pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/parser"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/prompt"
	"github.com/rs/zerolog"
)

const Version = "1.0.0"

type Pipeline interface {
	OneShot(ctx context.Context, input string) (*models.Completion, error)
	OneShotStream(ctx context.Context, input string, callback llm.StreamCallback) (*models.Completion, error)
	Translate(ctx context.Context, req models.TranslateRequest) (*models.Completion, error)
	FewShot(ctx context.Context, input string) (*models.Completion, error)
	Add(ctx context.Context, phrase string) (*models.AgentAnswer, error)
	ProcessDocument(ctx context.Context, document string) (*parser.TextDocument, error)
}

type Handler struct {
	pipeline Pipeline
	logger   *zerolog.Logger
}

func NewHandler(pipeline Pipeline, logger *zerolog.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// POST /api/v1/one-shot
func (h *Handler) OneShot(req *restful.Request, resp *restful.Response) {
	var body models.OneShotRequest
	if !h.readEntity(req, resp, &body) {
		return
	}

	h.logger.Info().Str("request_id", requestID(req)).Int("input_len", len(body.Input)).Msg("Process one-shot prompt")

	completion, err := h.pipeline.OneShot(req.Request.Context(), body.Input)
	h.writeResult(req, resp, completion, err)
}

// POST /api/v1/one-shot/stream
// Returns: text/event-stream with start, chunk, done or error events
func (h *Handler) OneShotStream(req *restful.Request, resp *restful.Response) {
	var body models.OneShotRequest
	if !h.readEntity(req, resp, &body) {
		return
	}

	writer := resp.ResponseWriter
	flusher, ok := writer.(http.Flusher)
	if !ok {
		middleware.HandleError(resp, fmt.Errorf("streaming not supported"), http.StatusInternalServerError)
		return
	}

	resp.AddHeader("Content-Type", "text/event-stream")
	resp.AddHeader("Cache-Control", "no-cache")
	resp.AddHeader("Connection", "keep-alive")
	resp.AddHeader("X-Accel-Buffering", "no")
	resp.WriteHeader(http.StatusOK)

	id := requestID(req)
	h.logger.Info().Str("request_id", id).Int("input_len", len(body.Input)).Msg("Process one-shot prompt stream")

	sse := newEventWriter(writer, flusher)
	sse.send("start", StreamStartEvent{RequestID: id, Pipeline: "one-shot"})

	completion, err := h.pipeline.OneShotStream(req.Request.Context(), body.Input, func(chunk string) error {
		return sse.send("chunk", StreamChunkEvent{Text: chunk})
	})
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", id).Msg("One-shot stream failed")
		sse.send("error", StreamErrorEvent{Error: publicError(err)})
		return
	}

	sse.send("done", StreamDoneEvent{StopReason: completion.StopReason, Model: completion.Model})
}

// POST /api/v1/language-translator
func (h *Handler) Translate(req *restful.Request, resp *restful.Response) {
	var body models.TranslateRequest
	if !h.readEntity(req, resp, &body) {
		return
	}

	h.logger.Info().
		Str("request_id", requestID(req)).
		Str("input_language", body.InputLanguage).
		Str("output_language", body.OutputLanguage).
		Msg("Process translation")

	completion, err := h.pipeline.Translate(req.Request.Context(), body)
	h.writeResult(req, resp, completion, err)
}

// POST /api/v1/few-shot
func (h *Handler) FewShot(req *restful.Request, resp *restful.Response) {
	var body models.FewShotRequest
	if !h.readEntity(req, resp, &body) {
		return
	}

	h.logger.Info().Str("request_id", requestID(req)).Int("input_len", len(body.Input)).Msg("Process few-shot prompt")

	completion, err := h.pipeline.FewShot(req.Request.Context(), body.Input)
	h.writeResult(req, resp, completion, err)
}

// POST /api/v1/add
func (h *Handler) Add(req *restful.Request, resp *restful.Response) {
	var body models.AddRequest
	if !h.readEntity(req, resp, &body) {
		return
	}

	h.logger.Info().Str("request_id", requestID(req)).Str("phrase", body.Phrase).Msg("Run add agent")

	answer, err := h.pipeline.Add(req.Request.Context(), body.Phrase)
	h.writeResult(req, resp, answer, err)
}

// POST /api/v1/process-document
func (h *Handler) ProcessDocument(req *restful.Request, resp *restful.Response) {
	var body models.ProcessDocumentRequest
	if !h.readEntity(req, resp, &body) {
		return
	}

	h.logger.Info().Str("request_id", requestID(req)).Int("document_len", len(body.Document)).Msg("Process document")

	doc, err := h.pipeline.ProcessDocument(req.Request.Context(), body.Document)
	h.writeResult(req, resp, doc, err)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := models.HealthResponse{
		Status:  "ok",
		Version: Version,
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

type validator interface {
	Validate() error
}

func (h *Handler) readEntity(req *restful.Request, resp *restful.Response, body validator) bool {
	if err := req.ReadEntity(body); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return false
	}
	if err := body.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeResult(req *restful.Request, resp *restful.Response, result any, err error) {
	if err != nil {
		status := statusFor(err)
		h.logger.Error().Err(err).Str("request_id", requestID(req)).Int("status", status).Msg("Pipeline failed")
		middleware.HandleError(resp, err, status)
		return
	}
	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// statusFor maps caller mistakes to 400 and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidRequest), errors.Is(err, prompt.ErrMissingVariable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicError hides server-side causes behind the generic status text.
func publicError(err error) string {
	if status := statusFor(err); status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

func requestID(req *restful.Request) string {
	if id, ok := req.Attribute(middleware.RequestIDAttribute).(string); ok {
		return id
	}
	return ""
}
