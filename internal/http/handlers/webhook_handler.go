// Webhook HTTP handler.
//
//   - POST /webhook   one conversational turn from the dialogue platform
//
// The handler only parses and answers; routing, persistence and delivery
// belong to the fulfillment service.
package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/tbourn/lead-webhook/internal/domain"
	"github.com/tbourn/lead-webhook/internal/services"
)

// Webhook godoc
// @ID          fulfillmentWebhook
// @Summary     Handle a conversational turn
// @Description Routes the turn by its tag: greets returning customers, stores captured names,
// @Description finalizes flight and cruise leads, and rewrites corrected dates.
// @Description Both the flat {tag, session, parameters} shape and the platform's native
// @Description {fulfillmentInfo, sessionInfo} shape are accepted. An empty object reply means
// @Description "continue the flow".
// @Tags        Fulfillment
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.WebhookRequest  true  "Fulfillment request"
//
// @Success     200  {object}  domain.WebhookResponse  "Fulfillment reply"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or malformed JSON body"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Operator notification failed; the platform should retry"
// @Router      /webhook [post]
func (h *Handlers) Webhook(c *gin.Context) {
	raw, err := readBody(c.Request)
	switch {
	case errors.Is(err, errBodyTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
		return
	case errors.Is(err, errBodyMissing):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "missing JSON body")
		return
	case err != nil:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable request body")
		return
	}

	var req domain.WebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body")
		return
	}
	if req.Empty() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request carries no tag, session or parameters")
		return
	}

	resp, err := h.fulfill.Handle(c.Request.Context(), req, raw)
	if err != nil {
		if errors.Is(err, services.ErrNotifyFailed) {
			fail(c, http.StatusInternalServerError, ErrCodeNotifyFailed, "operator notification failed")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	ok(c, http.StatusOK, resp)
}

var (
	errBodyTooLarge = errors.New("request body too large")
	errBodyMissing  = errors.New("missing request body")
)

// readBody reads the whole request body. It reports errBodyTooLarge when the
// router's size cap tripped and errBodyMissing when the body is blank.
func readBody(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errBodyMissing
	}
	return raw, nil
}
