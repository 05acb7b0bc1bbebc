package health

import (
	"net/http"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/http/handlers/response"
)

type Handler struct {
	reminderRepository reminder.ReminderRepository
}

func New(reminderRepository reminder.ReminderRepository) *Handler {
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	return &Handler{reminderRepository: reminderRepository}
}

type reminders struct {
	Total   uint `json:"total"`
	Pending uint `json:"pending"`
}

type Result struct {
	Status    string    `json:"status"`
	Reminders reminders `json:"reminders"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	counts := h.reminderRepository.Count(r.Context())
	response.Render(
		rw,
		Result{
			Status:    "ok",
			Reminders: reminders{Total: counts.Total, Pending: counts.Pending},
		},
		http.StatusOK,
	)
}
