package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/gamelan/core"
	"github.com/layer-3/gamelan/ports"
	"github.com/layer-3/gamelan/service"
)

// NonceHeader carries the page nonce on session requests
const NonceHeader = "X-Session-Nonce"

// nonceMetaTag is injected into the page head so the frontend can read its
// single-use nonce; %s is the nonce value
const nonceMetaTag = `<meta name="session-nonce" content="%s">`

// Handlers contains the HTTP handlers for all gamelan endpoints
type Handlers struct {
	auth      *service.AuthService
	synthesis *service.SynthesisService
	metadata  ports.MetadataSource
	logger    *slog.Logger

	// indexHTML is the built frontend page template, nil in dev mode
	indexHTML []byte
}

// NewHandlers creates the endpoint handlers
func NewHandlers(
	auth *service.AuthService,
	synthesis *service.SynthesisService,
	metadata ports.MetadataSource,
	logger *slog.Logger,
	indexHTML []byte,
) *Handlers {
	return &Handlers{
		auth:      auth,
		synthesis: synthesis,
		metadata:  metadata,
		logger:    logger,
		indexHTML: indexHTML,
	}
}

// Index serves the built frontend page with a one-time nonce embedded in its
// metadata, binding this render to a later session request
func (h *Handlers) Index(c *gin.Context) {
	if h.indexHTML == nil {
		c.String(http.StatusNotFound, "Frontend not built. Run make build first.")
		return
	}

	nonce, err := h.auth.CreatePageNonce(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to create page nonce", "error", err)
		abortWithError(c, http.StatusInternalServerError, ErrorTypeSynthesis, CodeInternalServerError,
			"Failed to render page")
		return
	}

	html := strings.Replace(
		string(h.indexHTML),
		"</head>",
		fmt.Sprintf(nonceMetaTag, nonce)+"\n</head>",
		1,
	)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Session issues a session token. In nonce mode a valid X-Session-Nonce
// header is required; each nonce works exactly once.
func (h *Handlers) Session(c *gin.Context) {
	token, err := h.auth.IssueSession(c.Request.Context(), c.GetHeader(NonceHeader))
	if err != nil {
		if errors.Is(err, core.ErrInvalidNonce) {
			abortWithError(c, http.StatusForbidden, ErrorTypeAuthentication, CodeInvalidNonce,
				"Valid session nonce required. Please refresh the page.")
			return
		}

		h.logger.Error("failed to issue session", "error", err)
		abortWithError(c, http.StatusInternalServerError, ErrorTypeSynthesis, CodeInternalServerError,
			"Failed to issue session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Synthesize converts text to speech and returns the raw audio bytes
func (h *Handlers) Synthesize(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorTypeSynthesis, CodeInvalidRequest,
			"Request body must be JSON")
		return
	}

	audio, err := h.synthesis.Synthesize(c.Request.Context(), core.SpeechRequest{
		Text:  req.Text,
		Model: c.Query("model"),
	})
	if err != nil {
		status, code, message := synthesisError(err)
		abortWithError(c, status, ErrorTypeSynthesis, code, message)
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", audio)
}

// Metadata returns the service metadata document
func (h *Handlers) Metadata(c *gin.Context) {
	meta, err := h.metadata.Meta()
	if err != nil {
		h.logger.Error("failed to read metadata", "error", err)
		abortWithError(c, http.StatusInternalServerError, ErrorTypeSynthesis, CodeInternalServerError,
			"Failed to read service metadata")
		return
	}

	c.JSON(http.StatusOK, meta)
}

// Health reports process liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// synthesisError maps a service error to the wire contract
func synthesisError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return http.StatusBadRequest, CodeInvalidRequest,
			"Text field is required and cannot be empty"
	case errors.Is(err, core.ErrTextTooLong):
		return http.StatusBadRequest, CodeTextTooLong,
			"Text exceeds maximum length of 2000 characters"
	default:
		return http.StatusInternalServerError, CodeSynthesisFailed,
			"Failed to synthesize speech"
	}
}
