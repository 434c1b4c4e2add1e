// Worker HTTP handler.
//
//   - POST /worker   delivery for a queued lead, called by the queue
//
// The endpoint is authenticated by a shared secret header instead of caller
// identity, and replies in plain text: the queue reads the status code only.
package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/lead-webhook/internal/http/middleware"
	"github.com/tbourn/lead-webhook/internal/queue"
	"github.com/tbourn/lead-webhook/internal/services"
)

// Worker godoc
// @ID          leadWorker
// @Summary     Deliver a queued lead
// @Description Runs the lead delivery for the original webhook payload or an
// @Description {identifier, tag, parameters} envelope. Collaborator failures are logged only.
// @Tags        Worker
// @Accept      json
// @Produce     plain
//
// @Param       X-Worker-Secret  header  string                 true  "Shared worker secret"
// @Param       body             body    domain.WebhookRequest  true  "Queued payload"
//
// @Success     200  {string}  string  "OK"
// @Failure     400  {string}  string  "Bad Request"
// @Failure     401  {string}  string  "Unauthorized"
// @Failure     503  {string}  string  "Worker not configured"
// @Router      /worker [post]
func (h *Handlers) Worker(c *gin.Context) {
	if h.workerSecret == "" || h.worker == nil {
		middleware.LoggerFrom(c).Warn().Msg("worker_secret_not_configured")
		plain(c, http.StatusServiceUnavailable, "Worker not configured")
		return
	}
	if !SecretMatches(c.GetHeader(queue.SecretHeader), h.workerSecret) {
		middleware.LoggerFrom(c).Warn().Msg("worker_secret_mismatch")
		plain(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	raw, err := readBody(c.Request)
	switch {
	case errors.Is(err, errBodyTooLarge):
		plain(c, http.StatusRequestEntityTooLarge, "Request Entity Too Large")
		return
	case err != nil:
		plain(c, http.StatusBadRequest, "Bad Request")
		return
	}

	if err := h.worker.Process(c.Request.Context(), raw); err != nil {
		if errors.Is(err, services.ErrBadPayload) {
			plain(c, http.StatusBadRequest, "Bad Request")
			return
		}
		plain(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	plain(c, http.StatusOK, "OK")
}

// SecretMatches compares the presented header with the configured secret in
// constant time.
func SecretMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
