package events

import (
	"net/http"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	remindersender "ponger/internal/implementations/reminder_sender"
	"ponger/internal/http/handlers/auth"
	"ponger/internal/http/handlers/response"
	"strconv"
	"sync"

	"github.com/r3labs/sse/v2"
)

// Handler streams delivered reminders of one recipient as server-sent
// events. The stream is selected with the "stream" query parameter and must
// be authorized with a token issued for that recipient.
type Handler struct {
	log       logging.Logger
	sseServer *sse.Server
	tokens    reminder.StreamTokenIssuer

	lock        sync.Mutex
	subscribers map[string]int
}

func New(log logging.Logger, sseServer *sse.Server, tokens reminder.StreamTokenIssuer) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	if tokens == nil {
		panic(e.NewNilArgumentError("tokens"))
	}
	return &Handler{
		log:         log,
		sseServer:   sseServer,
		tokens:      tokens,
		subscribers: make(map[string]int),
	}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	recipientID, err := strconv.ParseInt(r.URL.Query().Get("stream"), 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid stream", http.StatusBadRequest)
		return
	}
	token := r.URL.Query().Get("token")
	if len(token) > auth.AUTH_TOKEN_MAX_LEN ||
		!h.tokens.ValidateStreamToken(reminder.RecipientID(recipientID), reminder.StreamToken(token)) {
		response.RenderUnauthorized(rw)
		return
	}

	streamID := remindersender.StreamID(reminder.RecipientID(recipientID))
	h.subscribe(streamID)
	defer h.unsubscribe(streamID)

	h.log.Info(
		r.Context(),
		"Subscribed to recipient events.",
		logging.Entry("streamID", streamID),
	)
	h.sseServer.ServeHTTP(rw, r)
	h.log.Info(
		r.Context(),
		"Unsubscribed from recipient events.",
		logging.Entry("streamID", streamID),
	)
}

func (h *Handler) subscribe(streamID string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if !h.sseServer.StreamExists(streamID) {
		h.sseServer.CreateStream(streamID)
	}
	h.subscribers[streamID]++
}

// unsubscribe removes the stream together with its last subscriber.
func (h *Handler) unsubscribe(streamID string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.subscribers[streamID]--
	if h.subscribers[streamID] > 0 {
		return
	}
	delete(h.subscribers, streamID)
	h.sseServer.RemoveStream(streamID)
}

// TokenHandler issues stream tokens. It must be mounted behind API token
// authorization.
type TokenHandler struct {
	tokens reminder.StreamTokenIssuer
}

func NewTokenHandler(tokens reminder.StreamTokenIssuer) *TokenHandler {
	if tokens == nil {
		panic(e.NewNilArgumentError("tokens"))
	}
	return &TokenHandler{tokens: tokens}
}

type TokenResult struct {
	Stream string `json:"stream"`
	Token  string `json:"token"`
}

func (h *TokenHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	recipientID, err := strconv.ParseInt(r.URL.Query().Get("recipient_id"), 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid recipient_id", http.StatusBadRequest)
		return
	}
	rid := reminder.RecipientID(recipientID)
	response.Render(rw, TokenResult{
		Stream: remindersender.StreamID(rid),
		Token:  string(h.tokens.GenerateStreamToken(rid)),
	}, http.StatusOK)
}
