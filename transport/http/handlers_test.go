package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/gamelan/adapters/metadata"
	"github.com/layer-3/gamelan/adapters/store"
	"github.com/layer-3/gamelan/adapters/tokenizer"
	"github.com/layer-3/gamelan/core"
	"github.com/layer-3/gamelan/service"
)

const testSecret = "test-secret"

const testIndexHTML = `<html><head><title>gamelan</title></head><body></body></html>`

var nonceMetaPattern = regexp.MustCompile(`<meta name="session-nonce" content="([0-9a-f]+)">`)

type stubPublisher struct{}

func (stubPublisher) PublishSessionIssued(context.Context, string, time.Time) error { return nil }

type stubSynthesizer struct {
	audio string
	err   error
	calls int
}

func (s *stubSynthesizer) Synthesize(context.Context, string, string) (io.ReadCloser, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.audio)), nil
}

type fixture struct {
	router *gin.Engine
	auth   *service.AuthService
	synth  *stubSynthesizer
}

func newFixture(t *testing.T, requireNonce bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auth := service.NewAuthService(
		store.NewMemoryStore(core.NonceTTL),
		tokenizer.NewJWTTokenizer([]byte(testSecret)),
		stubPublisher{},
		logger,
		requireNonce,
	)

	synth := &stubSynthesizer{audio: "audio-bytes"}

	metaPath := filepath.Join(t.TempDir(), "gamelan.yaml")
	require.NoError(t, os.WriteFile(metaPath, []byte("meta:\n  title: gamelan\n"), 0o644))

	handlers := NewHandlers(
		auth,
		service.NewSynthesisService(synth, logger),
		metadata.NewFileSource(metaPath),
		logger,
		[]byte(testIndexHTML),
	)

	return &fixture{
		router: SetupRouter(handlers, auth, logger, false),
		auth:   auth,
		synth:  synth,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

// TestNonceSessionSynthesisFlow walks the whole protocol: page render embeds
// a nonce, the nonce buys exactly one token, the token buys synthesis.
func TestNonceSessionSynthesisFlow(t *testing.T) {
	f := newFixture(t, true)

	// Page render carries a fresh nonce
	rec := f.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	match := nonceMetaPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "index page must embed a session nonce")
	nonce := match[1]

	// Exchange the nonce for a token
	rec = f.do(t, http.MethodGet, "/api/session", "", map[string]string{NonceHeader: nonce})
	require.Equal(t, http.StatusOK, rec.Code)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)

	// The token gates synthesis
	rec = f.do(t, http.MethodPost, "/api/text-to-speech", `{"text":"hello"}`, map[string]string{
		"Authorization": "Bearer " + session.Token,
		"Content-Type":  "application/json",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	// Replaying the nonce is refused
	rec = f.do(t, http.MethodGet, "/api/session", "", map[string]string{NonceHeader: nonce})
	require.Equal(t, http.StatusForbidden, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, ErrorTypeAuthentication, detail.Type)
	assert.Equal(t, CodeInvalidNonce, detail.Code)
}

func TestSessionWithoutNonceInNonceMode(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodGet, "/api/session", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeInvalidNonce, decodeError(t, rec).Code)
}

func TestSessionInDevMode(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/api/session", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIndexWithoutBuiltFrontend(t *testing.T) {
	f := newFixture(t, true)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handlers := NewHandlers(f.auth, service.NewSynthesisService(f.synth, logger), metadata.NewFileSource(""), logger, nil)
	router := SetupRouter(handlers, f.auth, logger, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Frontend not built")
}

func TestSynthesizeWithoutToken(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare token", "some-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{"Content-Type": "application/json"}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}

			rec := f.do(t, http.MethodPost, "/api/text-to-speech", `{"text":"hello"}`, headers)
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			detail := decodeError(t, rec)
			assert.Equal(t, ErrorTypeAuthentication, detail.Type)
			assert.Equal(t, CodeMissingToken, detail.Code)
			assert.Zero(t, f.synth.calls)
		})
	}
}

func TestSynthesizeWithInvalidToken(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/text-to-speech", `{"text":"hello"}`, map[string]string{
		"Authorization": "Bearer not-a-real-token",
		"Content-Type":  "application/json",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, CodeInvalidToken, detail.Code)
	assert.Equal(t, "Invalid session token", detail.Message)
}

func TestSynthesizeWithExpiredToken(t *testing.T) {
	f := newFixture(t, false)

	// Sign an already-expired session with the server's own secret
	expired, err := tokenizer.NewJWTTokenizer([]byte(testSecret)).SessionToToken(&core.Session{
		ID:        uuid.New().String(),
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/text-to-speech", `{"text":"hello"}`, map[string]string{
		"Authorization": "Bearer " + expired,
		"Content-Type":  "application/json",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, CodeInvalidToken, detail.Code)
	assert.Equal(t, "Session expired, please refresh the page", detail.Message)
}

func TestSynthesizeValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"not json", "this is not json", CodeInvalidRequest},
		{"empty text", `{"text":""}`, CodeInvalidRequest},
		{"whitespace text", `{"text":"   "}`, CodeInvalidRequest},
		{"too long", `{"text":"` + strings.Repeat("a", core.MaxTextLength+1) + `"}`, CodeTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			token := issueToken(t, f)

			rec := f.do(t, http.MethodPost, "/api/text-to-speech", tt.body, map[string]string{
				"Authorization": "Bearer " + token,
				"Content-Type":  "application/json",
			})

			require.Equal(t, http.StatusBadRequest, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, ErrorTypeSynthesis, detail.Type)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.Zero(t, f.synth.calls, "provider must not be called")
		})
	}
}

func TestSynthesizeProviderFailure(t *testing.T) {
	f := newFixture(t, false)
	f.synth.err = core.ErrSynthesisFailed
	token := issueToken(t, f)

	rec := f.do(t, http.MethodPost, "/api/text-to-speech", `{"text":"hello"}`, map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeSynthesisFailed, decodeError(t, rec).Code)
}

func TestSynthesizeProviderLengthRejection(t *testing.T) {
	f := newFixture(t, false)
	f.synth.err = core.ErrTextTooLong
	token := issueToken(t, f)

	rec := f.do(t, http.MethodPost, "/api/text-to-speech", `{"text":"hello"}`, map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeTextTooLong, decodeError(t, rec).Code)
}

func TestSynthesizeAliasRoute(t *testing.T) {
	f := newFixture(t, false)
	token := issueToken(t, f)

	rec := f.do(t, http.MethodPost, "/tts/synthesize", `{"text":"hello"}`, map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetadata(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/api/metadata", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, "gamelan", meta["title"])
}

func TestMetadataMissingFile(t *testing.T) {
	f := newFixture(t, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handlers := NewHandlers(
		f.auth,
		service.NewSynthesisService(f.synth, logger),
		metadata.NewFileSource("does-not-exist.yaml"),
		logger,
		[]byte(testIndexHTML),
	)
	router := SetupRouter(handlers, f.auth, logger, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metadata", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternalServerError, decodeError(t, rec).Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func issueToken(t *testing.T, f *fixture) string {
	t.Helper()
	token, err := f.auth.IssueSession(context.Background(), "")
	require.NoError(t, err)
	return token
}
