package createreminder

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	service "ponger/internal/core/services/create_reminder"
	handlemessage "ponger/internal/core/services/handle_message"
	"ponger/internal/http/handlers/response"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	// MAX_MESSAGE_LEN is the Telegram limit for a message text.
	MAX_MESSAGE_LEN = 4096
	// MAX_INTERVAL is one hundred years in seconds.
	MAX_INTERVAL int64 = 100 * 365 * 24 * 60 * 60
)

// Due dates outside of this range can not be rendered as RFC 3339.
var (
	MIN_AT = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MAX_AT = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

var errIntervalAndAt = errors.New("must be blank when interval is set")

type Handler struct {
	withDueDate  services.Service[service.Input, service.Result]
	withInterval services.Service[service.IntervalInput, service.Result]
	clock        reminder.Clock
}

func New(
	withDueDate services.Service[service.Input, service.Result],
	withInterval services.Service[service.IntervalInput, service.Result],
	clock reminder.Clock,
) *Handler {
	if withDueDate == nil {
		panic(e.NewNilArgumentError("withDueDate"))
	}
	if withInterval == nil {
		panic(e.NewNilArgumentError("withInterval"))
	}
	if clock == nil {
		panic(e.NewNilArgumentError("clock"))
	}
	return &Handler{withDueDate: withDueDate, withInterval: withInterval, clock: clock}
}

type Input struct {
	Message     string     `json:"message"`
	RecipientID *int64     `json:"recipient_id"`
	Interval    *int64     `json:"interval"`
	At          *time.Time `json:"at"`
}

type Result struct {
	Reminder response.Reminder `json:"reminder"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Message, validation.Required, validation.Length(0, MAX_MESSAGE_LEN)),
		validation.Field(&i.RecipientID, validation.NotNil),
		validation.Field(&i.Interval, validation.Min(-MAX_INTERVAL), validation.Max(MAX_INTERVAL)),
		validation.Field(
			&i.At,
			validation.By(func(value interface{}) error {
				if i.Interval != nil && i.At != nil {
					return errIntervalAndAt
				}
				return nil
			}),
			validation.Min(MIN_AT),
			validation.Max(MAX_AT),
		),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	var result service.Result
	var err error
	if input.At != nil {
		result, err = h.withDueDate.Run(r.Context(), service.Input{
			Message:     input.Message,
			DueAt:       reminder.Timestamp(input.At.Unix()),
			RecipientID: reminder.RecipientID(*input.RecipientID),
		})
	} else {
		interval := handlemessage.DEFAULT_INTERVAL
		if input.Interval != nil {
			interval = *input.Interval
		}
		result, err = h.withInterval.Run(r.Context(), service.IntervalInput{
			Message:     input.Message,
			Interval:    interval,
			RecipientID: reminder.RecipientID(*input.RecipientID),
		})
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	rem := response.Reminder{}
	rem.FromDomainType(result.Reminder, h.clock.Now())
	response.Render(rw, Result{Reminder: rem}, http.StatusCreated)
}
