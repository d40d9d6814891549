package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/enums/deliverystatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	handoff *Handoff
	logger  apt.Logger
	config  *apt.Config
	tlm     *telemetry.HTTP
}

func NewHandler(handoff *Handoff, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		handoff: handoff,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/delivery-orders", func(r chi.Router) {
		r.Get("/", h.ListDeliveries)
		r.Post("/", h.CreateDelivery)
		r.Get("/{id}", h.GetDelivery)
		r.Put("/{id}/status", h.AdvanceDelivery)
	})
}

func (h *Handler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListDeliveries")
	defer finish()

	log := h.log(r)

	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurantId"))
	if restaurantID == "" {
		apt.RespondError(w, http.StatusBadRequest, "restaurantId is required")
		return
	}

	var status *deliverystatus.Status
	if name := r.URL.Query().Get("status"); name != "" {
		if status = deliverystatus.ByName(name); status == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
	}

	orders, err := h.handoff.List(r.Context(), restaurantID, status)
	if err != nil {
		log.Error("error retrieving delivery orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve delivery orders")
		return
	}
	if orders == nil {
		orders = []*Order{}
	}

	apt.Respond(w, http.StatusOK, orders, nil)
}

func (h *Handler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateDelivery")
	defer finish()

	log := h.log(r)

	var req CreateRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.RestaurantID == "" {
		req.RestaurantID = r.URL.Query().Get("restaurantId")
	}

	if validationErrors := ValidateCreate(req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, ", "))
		return
	}

	order, err := h.handoff.Create(r.Context(), req.ToInput())
	if err != nil {
		h.respondError(w, log, err, "Could not create delivery order")
		return
	}

	links := apt.RESTfulLinksFor(order)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDelivery")
	defer finish()

	log := h.log(r)

	restaurantID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	order, err := h.handoff.Get(r.Context(), restaurantID, id)
	if err != nil {
		h.respondError(w, log, err, "Could not load delivery order")
		return
	}

	apt.RespondSuccess(w, order, apt.RESTfulLinksFor(order)...)
}

func (h *Handler) AdvanceDelivery(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdvanceDelivery")
	defer finish()

	log := h.log(r)

	restaurantID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if validationErrors := ValidateStatusUpdate(req); len(validationErrors) > 0 {
		apt.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	order, err := h.handoff.Advance(r.Context(), restaurantID, id, *deliverystatus.ByName(req.Status))
	if err != nil {
		h.respondError(w, log, err, "Could not update delivery order")
		return
	}

	apt.RespondSuccess(w, order)
}

func (h *Handler) respondError(w http.ResponseWriter, log apt.Logger, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		apt.RespondError(w, http.StatusNotFound, "Delivery order not found")
	case errors.Is(err, ErrIllegalTransition):
		apt.RespondError(w, http.StatusConflict, "Illegal status transition")
	case errors.Is(err, ErrDuplicateSource):
		apt.RespondError(w, http.StatusConflict, "Delivery already exists for kitchen order")
	case errors.Is(err, ErrInvalidOrder):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error(strings.ToLower(message), "error", err)
		apt.RespondError(w, http.StatusInternalServerError, message)
	}
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurantId"))
	if restaurantID == "" {
		apt.RespondError(w, http.StatusBadRequest, "restaurantId is required")
		return "", uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return "", uuid.Nil, false
	}

	return restaurantID, id, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log apt.Logger, out interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		apt.RespondError(w, http.StatusBadRequest, "Request body is empty")
		return false
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}
