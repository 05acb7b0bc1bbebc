package telegram

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"ponger/internal/core/domain/bot"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	handlemessage "ponger/internal/core/services/handle_message"
	"ponger/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
)

const URL_SECRET_PARAM = "secret"

// Handler receives Bot API updates pushed to the webhook. Every accepted
// update is answered with 200 so that Telegram does not retry it.
type Handler struct {
	log           logging.Logger
	secret        string
	deduplicator  bot.UpdateDeduplicator
	handleMessage services.Service[handlemessage.Input, handlemessage.Result]
}

func New(
	log logging.Logger,
	secret string,
	deduplicator bot.UpdateDeduplicator,
	handleMessage services.Service[handlemessage.Input, handlemessage.Result],
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if secret == "" {
		panic("webhook secret must not be empty")
	}
	if deduplicator == nil {
		panic(e.NewNilArgumentError("deduplicator"))
	}
	if handleMessage == nil {
		panic(e.NewNilArgumentError("handleMessage"))
	}
	return &Handler{
		log:           log,
		secret:        secret,
		deduplicator:  deduplicator,
		handleMessage: handleMessage,
	}
}

type user struct {
	ID int64 `json:"id"`
}

type chat struct {
	ID int64 `json:"id"`
}

type message struct {
	ID   int64  `json:"message_id"`
	From *user  `json:"from"`
	Chat chat   `json:"chat"`
	Date int64  `json:"date"`
	Text string `json:"text"`
}

type update struct {
	ID      int64    `json:"update_id"`
	Message *message `json:"message"`
}

func (u *update) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(u)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	secret := chi.URLParam(r, URL_SECRET_PARAM)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		response.RenderNotFound(rw)
		return
	}
	defer response.Render(rw, struct{}{}, http.StatusOK)

	update := update{}
	if err := update.FromJSON(r.Body); err != nil {
		h.log.Error(
			r.Context(),
			"Could not decode Telegram update.",
			logging.Entry("err", err),
		)
		return
	}
	if update.Message == nil || update.Message.Text == "" {
		h.log.Info(
			r.Context(),
			"Skip Telegram update.",
			logging.Entry("updateID", update.ID),
		)
		return
	}
	if !h.deduplicator.IsFirstDelivery(r.Context(), bot.UpdateID(update.ID)) {
		h.log.Info(
			r.Context(),
			"Skip already handled Telegram update.",
			logging.Entry("updateID", update.ID),
		)
		return
	}
	h.log.Info(
		r.Context(),
		"Got Telegram update.",
		logging.Entry("updateID", update.ID),
		logging.Entry("chatID", update.Message.Chat.ID),
	)

	_, err := h.handleMessage.Run(r.Context(), handlemessage.Input{
		Text:        update.Message.Text,
		RecipientID: reminder.RecipientID(update.Message.Chat.ID),
	})
	if err != nil {
		logging.Error(r.Context(), h.log, err, logging.Entry("updateID", update.ID))
	}
}
