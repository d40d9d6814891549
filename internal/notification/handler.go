package notification

import (
	"errors"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	emitter *Emitter
	logger  apt.Logger
	tlm     *telemetry.HTTP
}

func NewHandler(emitter *Emitter, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		emitter: emitter,
		logger:  logger,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Post("/{id}/read", h.MarkRead)
	})
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListNotifications")
	defer finish()

	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurantId"))
	if restaurantID == "" {
		apt.RespondError(w, http.StatusBadRequest, "restaurantId is required")
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"

	list, err := h.emitter.List(r.Context(), restaurantID, unreadOnly)
	if err != nil {
		h.log(r).Error("error retrieving notifications", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve notifications")
		return
	}
	if list == nil {
		list = []*Event{}
	}

	apt.Respond(w, http.StatusOK, list, nil)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkRead")
	defer finish()

	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurantId"))
	if restaurantID == "" {
		apt.RespondError(w, http.StatusBadRequest, "restaurantId is required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	ev, err := h.emitter.MarkRead(r.Context(), restaurantID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Notification not found")
			return
		}
		h.log(r).Error("cannot mark notification read", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update notification")
		return
	}

	apt.RespondSuccess(w, ev)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}
