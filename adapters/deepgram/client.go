package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/layer-3/gamelan/core"
)

const (
	defaultBaseURL = "https://api.deepgram.com"
	speakPath      = "/v1/speak"
)

// ClientOption configures the Deepgram client
type ClientOption func(*Client)

// Client calls the Deepgram Speak API. The provider is treated as a black
// box: it accepts text plus a model and answers with a stream of raw audio
// bytes, or an error document with free-form wording.
type Client struct {
	rest *resty.Client
}

// NewClient creates a Speak API client authenticated with the given key
func NewClient(apiKey string, opts ...ClientOption) *Client {
	rest := resty.New().
		SetBaseURL(defaultBaseURL).
		SetAuthScheme("Token").
		SetAuthToken(apiKey)

	client := &Client{rest: rest}
	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithBaseURL points the client at a different API host
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.rest.SetBaseURL(url)
	}
}

type speakRequest struct {
	Text string `json:"text"`
}

// speakError is a loose view of Deepgram's error document; the fields vary
// between endpoints so every candidate is tried.
type speakError struct {
	ErrMsg  string `json:"err_msg"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func (e speakError) text() string {
	for _, s := range []string{e.ErrMsg, e.Message, e.Reason} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Synthesize requests audio for the given text and returns the undecoded
// response body as a chunk stream for the caller to drain.
func (c *Client) Synthesize(ctx context.Context, text, model string) (io.ReadCloser, error) {
	body, err := json.Marshal(speakRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", core.ErrSynthesisFailed, err)
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("model", model).
		SetBody(body).
		SetDoNotParseResponse(true).
		Post(speakPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSynthesisFailed, err)
	}

	if resp.StatusCode() != http.StatusOK {
		defer resp.RawBody().Close()
		return nil, c.mapError(resp.StatusCode(), resp.RawBody())
	}

	return resp.RawBody(), nil
}

// mapError converts a provider error response into a domain error. Deepgram
// exposes no structured error taxonomy, so length violations are detected by
// matching the error wording. Known coarse behavior: a provider rewording
// would degrade TEXT_TOO_LONG responses to SYNTHESIS_FAILED.
func (c *Client) mapError(status int, body io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return fmt.Errorf("%w: provider returned status %d", core.ErrSynthesisFailed, status)
	}

	var detail speakError
	_ = json.Unmarshal(raw, &detail)

	msg := detail.text()
	if msg == "" {
		msg = string(raw)
	}

	if isLengthViolation(msg) {
		return fmt.Errorf("%w: %s", core.ErrTextTooLong, msg)
	}

	return fmt.Errorf("%w: provider returned status %d: %s", core.ErrSynthesisFailed, status, msg)
}

func isLengthViolation(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range []string{"too long", "exceeds", "character limit", "length"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
