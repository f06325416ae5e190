package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/generator"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/quota"
	"github.com/rs/zerolog"
)

const (
	// UnknownClient identifies callers without an X-Forwarded-For header.
	UnknownClient = "unknown"

	msgMissingInput = "Missing kind or payload"
	msgInvalidKind  = "Invalid kind"
	msgInvalidBody  = "Invalid JSON body"
	msgFailed       = "Failed to generate"
)

type Handler struct {
	generator Generator
	quota     QuotaChecker
	logger    *zerolog.Logger
}

func NewHandler(generator Generator, quota QuotaChecker, logger *zerolog.Logger) *Handler {
	return &Handler{
		generator: generator,
		quota:     quota,
		logger:    logger,
	}
}

// POST /api/generate
// Body: {"kind": "replies"|"hooks", "payload": {...}}
// Returns: {"replies": [...]} or {"hooks": [...]}
func (h *Handler) Generate(req *restful.Request, resp *restful.Response) {
	var genRequest generator.Request
	if err := json.NewDecoder(req.Request.Body).Decode(&genRequest); err != nil {
		if errors.Is(err, io.EOF) {
			middleware.WriteError(resp, msgMissingInput, http.StatusBadRequest)
			return
		}
		h.logger.Warn().Err(err).Msg("Failed to parse request body")
		middleware.WriteError(resp, msgInvalidBody, http.StatusBadRequest)
		return
	}

	kind, payload, err := genRequest.Decode()
	if err != nil {
		h.writeError(resp, err)
		return
	}

	ctx := req.Request.Context()
	clientID := ClientID(req.Request)

	if err := h.quota.Allow(ctx, clientID); err != nil {
		h.logger.Info().
			Err(err).
			Str("client_id", clientID).
			Msg("Quota check rejected request")
		h.writeError(resp, err)
		return
	}

	h.logger.Info().
		Str("client_id", clientID).
		Str("kind", string(kind)).
		Int("count", payload.Count(kind)).
		Msg("Start generation")

	result, err := h.generator.Generate(ctx, kind, payload)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("client_id", clientID).
			Str("kind", string(kind)).
			Msg("Generation failed")
		h.writeError(resp, err)
		return
	}

	if err := resp.WriteHeaderAndJson(http.StatusOK, result, restful.MIME_JSON); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write response")
	}
}

// Health handler GET /api/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func (h *Handler) writeError(resp *restful.Response, err error) {
	switch {
	case errors.Is(err, generator.ErrMissingInput):
		middleware.WriteError(resp, msgMissingInput, http.StatusBadRequest)
	case errors.Is(err, generator.ErrInvalidKind):
		middleware.WriteError(resp, msgInvalidKind, http.StatusBadRequest)
	case errors.Is(err, generator.ErrInvalidPayload):
		middleware.HandleError(resp, err, http.StatusBadRequest)
	case errors.Is(err, quota.ErrLimitReached):
		middleware.WriteError(resp, quota.LimitMessage, http.StatusTooManyRequests)
	case errors.Is(err, llm.ErrNotConfigured):
		middleware.HandleError(resp, err, http.StatusInternalServerError)
	default:
		message := msgFailed
		if err != nil && err.Error() != "" {
			message = err.Error()
		}
		middleware.WriteError(resp, message, http.StatusInternalServerError)
	}
}

// ClientID returns the first address of X-Forwarded-For, or UnknownClient.
func ClientID(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	first, _, _ := strings.Cut(forwarded, ",")
	if id := strings.TrimSpace(first); id != "" {
		return id
	}
	return UnknownClient
}
