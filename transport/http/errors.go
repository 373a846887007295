package http

import "github.com/gin-gonic/gin"

// Error types per the wire contract
const (
	ErrorTypeAuthentication = "AuthenticationError"
	ErrorTypeSynthesis      = "SynthesisError"
)

// Error codes per the wire contract
const (
	CodeMissingToken        = "MISSING_TOKEN"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeInvalidNonce        = "INVALID_NONCE"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeTextTooLong         = "TEXT_TOO_LONG"
	CodeSynthesisFailed     = "SYNTHESIS_FAILED"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

type errorDetail struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// abortWithError terminates the request with the uniform error JSON shape
func abortWithError(c *gin.Context, status int, errType, code, message string) {
	c.AbortWithStatusJSON(status, errorBody{
		Error: errorDetail{
			Type:    errType,
			Code:    code,
			Message: message,
		},
	})
}
