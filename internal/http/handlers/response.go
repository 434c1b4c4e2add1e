// Package handlers provides the HTTP handlers of the fulfillment webhook.
//
// This file holds the response helpers shared by every endpoint. JSON
// endpoints fail with an ErrorResponse carrying a stable code; the worker
// endpoint answers in plain text because its caller only reads the status.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/tbourn/lead-webhook/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by JSON endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"bad_request"`
	// Human-readable message
	Message string `json:"message" example:"malformed JSON body"`
}

// fail aborts the request with the error envelope. 5xx responses are logged
// through the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail() for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON. Encoding goes through goccy/go-json because the
// session parameters echoed back are arbitrary nested maps.
func ok(c *gin.Context, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "response encoding failed")
		return
	}
	c.Data(status, "application/json; charset=utf-8", b)
}

// plain writes a text/plain reply and stops the chain.
func plain(c *gin.Context, status int, text string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Int("status", status).Str("message", text).Msg("api error")
	}
	c.Abort()
	c.String(status, text)
}
