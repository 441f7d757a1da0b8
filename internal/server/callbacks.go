package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/arcturial/clickatell/pkg/callback"
	"github.com/arcturial/clickatell/pkg/db"
	"github.com/arcturial/clickatell/pkg/events"
	"github.com/arcturial/clickatell/pkg/metrics"
)

const callbacksLogPrefix = "server:callbacks"

// CallbackStore persists accepted callbacks.
type CallbackStore interface {
	Insert(ctx context.Context, rec callback.Record) (*db.Callback, error)
}

// StatusStore caches the latest delivery status per message.
type StatusStore interface {
	Put(ctx context.Context, rec callback.Record) (bool, error)
}

// callbackHandler receives vendor callbacks. Store is required; the status
// cache, publisher and metrics are optional.
type callbackHandler struct {
	store     CallbackStore
	status    StatusStore
	publisher events.EventPublisher
	metrics   *metrics.Metrics
}

// HandleMT godoc
// @Summary     Delivery status callback
// @Description Receives a legacy MT delivery status as query or form values.
// @Tags        callbacks
// @Produce     json
// @Param       apiMsgId  query string true "Vendor message id"
// @Param       cliMsgId  query string true "Client message id"
// @Param       to        query string true "Recipient"
// @Param       from      query string true "Sender"
// @Param       timestamp query string true "Vendor timestamp"
// @Param       status    query string true "Status code"
// @Param       charge    query string true "Charge"
// @Success     200 {object} apiResponse
// @Failure     400 {object} apiResponse
// @Failure     403 {object} apiResponse
// @Router      /callback/mt [get]
// @Router      /callback/mt [post]
func (h *callbackHandler) HandleMT(c *gin.Context) {
	values, ok := formValues(c)
	if !ok {
		return
	}
	st, ok := callback.ParseMT(values)
	if !ok {
		respondError(c, http.StatusBadRequest, "INCOMPLETE_CALLBACK", "missing MT callback fields")
		return
	}
	h.accept(c, st.Record())
}

// HandleMO godoc
// @Summary     Reply callback
// @Description Receives a legacy MO reply as query values.
// @Tags        callbacks
// @Produce     json
// @Param       api_id    query string true "API id"
// @Param       moMsgId   query string true "Reply message id"
// @Param       from      query string true "Sender"
// @Param       to        query string true "Recipient"
// @Param       timestamp query string true "Vendor timestamp"
// @Param       text      query string true "Reply text"
// @Param       network   query string true "Network id"
// @Param       charset   query string false "Charset"
// @Param       udh       query string false "User data header"
// @Success     200 {object} apiResponse
// @Failure     400 {object} apiResponse
// @Failure     403 {object} apiResponse
// @Router      /callback/mo [get]
func (h *callbackHandler) HandleMO(c *gin.Context) {
	values, ok := formValues(c)
	if !ok {
		return
	}
	reply, ok := callback.ParseMO(values)
	if !ok {
		respondError(c, http.StatusBadRequest, "INCOMPLETE_CALLBACK", "missing MO callback fields")
		return
	}
	h.accept(c, reply.Record())
}

// HandleRESTStatus godoc
// @Summary     REST delivery status callback
// @Description Receives a REST API delivery status as a JSON body.
// @Tags        callbacks
// @Accept      json
// @Produce     json
// @Success     200 {object} apiResponse
// @Failure     400 {object} apiResponse
// @Failure     403 {object} apiResponse
// @Router      /callback/status [post]
func (h *callbackHandler) HandleRESTStatus(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "failed to read body")
		return
	}
	st, ok := callback.ParseRESTStatus(body)
	if !ok {
		respondError(c, http.StatusBadRequest, "INCOMPLETE_CALLBACK", "missing status callback fields")
		return
	}
	h.accept(c, st.Record())
}

// HandleRESTReply godoc
// @Summary     REST reply callback
// @Description Receives a REST API two-way reply as a JSON body.
// @Tags        callbacks
// @Accept      json
// @Produce     json
// @Success     200 {object} apiResponse
// @Failure     400 {object} apiResponse
// @Failure     403 {object} apiResponse
// @Router      /callback/reply [post]
func (h *callbackHandler) HandleRESTReply(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "failed to read body")
		return
	}
	reply, ok := callback.ParseRESTReply(body)
	if !ok {
		respondError(c, http.StatusBadRequest, "INCOMPLETE_CALLBACK", "missing reply callback fields")
		return
	}
	h.accept(c, reply.Record())
}

// accept stores rec and fans it out. Only a store failure fails the request;
// cache and publish failures are logged.
func (h *callbackHandler) accept(c *gin.Context, rec callback.Record) {
	ctx := c.Request.Context()
	slog.Debug(fmt.Sprintf("%s - %s callback apiMsgId=%s", callbacksLogPrefix, rec.Kind, rec.APIMsgID))

	stored, err := h.store.Insert(ctx, rec)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - failed to store %s callback: %v", callbacksLogPrefix, rec.Kind, err))
		respondError(c, http.StatusInternalServerError, "STORE_FAILED", "failed to store callback")
		return
	}

	if h.status != nil {
		if _, err := h.status.Put(ctx, rec); err != nil {
			slog.Warn(fmt.Sprintf("%s - %v", callbacksLogPrefix, err))
		}
	}
	if h.publisher != nil {
		if err := h.publisher.PublishCallback(ctx, events.NewCallbackEvent(rec)); err != nil {
			slog.Warn(fmt.Sprintf("%s - failed to publish %s callback: %v", callbacksLogPrefix, rec.Kind, err))
		}
	}
	if h.metrics != nil {
		h.metrics.Callback(rec.Kind)
	}

	respondJSON(c, http.StatusOK, acceptedCallback{ID: stored.ID, Kind: rec.Kind, APIMsgID: rec.APIMsgID})
}

// formValues returns query and form values merged.
func formValues(c *gin.Context) (url.Values, bool) {
	if err := c.Request.ParseForm(); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FORM", "failed to parse form")
		return nil, false
	}
	return c.Request.Form, true
}

// guardMiddleware rejects callbacks from addresses outside the allow-list.
func guardMiddleware(g *callback.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.Check(c.RemoteIP()); err != nil {
			respondError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
			return
		}
		c.Next()
	}
}
