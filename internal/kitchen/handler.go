package kitchen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/enums/kitchenstatus"
)

const MaxBodyBytes = 1 << 20

// StatusCoordinator runs the kitchen writes that fan out to other
// aggregates.
type StatusCoordinator interface {
	Submit(ctx context.Context, in SubmitInput) (*Order, error)
	ApplyKitchenStatusChange(ctx context.Context, restaurantID string, id uuid.UUID, status kitchenstatus.Status, version int) (*Order, error)
}

type Handler struct {
	queue       *Queue
	coordinator StatusCoordinator
	logger      apt.Logger
	config      *apt.Config
	tlm         *telemetry.HTTP
}

func NewHandler(queue *Queue, coordinator StatusCoordinator, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		queue:       queue,
		coordinator: coordinator,
		logger:      logger,
		config:      config,
		tlm:         telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kitchen-orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.SubmitOrder)
		r.Put("/", h.ChangeStatus)
		r.Delete("/", h.RemoveOrder)
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurantId"))
	if restaurantID == "" {
		apt.RespondError(w, http.StatusBadRequest, "restaurantId is required")
		return
	}

	var status *kitchenstatus.Status
	if name := r.URL.Query().Get("status"); name != "" {
		status = kitchenstatus.ByName(name)
		if status == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
	}

	orders, err := h.queue.ListByStatus(ctx, restaurantID, status)
	if err != nil {
		log.Error("error retrieving kitchen orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve kitchen orders")
		return
	}
	if orders == nil {
		orders = []*Order{}
	}

	apt.Respond(w, http.StatusOK, orders, nil)
}

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req SubmitRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateSubmit(req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, ", "))
		return
	}

	order, err := h.coordinator.Submit(ctx, req.ToInput())
	if err != nil {
		h.respondError(w, log, err, "Could not submit kitchen order")
		return
	}

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ChangeStatus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req StatusChangeRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateStatusChange(req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, ", "))
		return
	}

	orderID, _ := uuid.Parse(req.OrderID)
	status := kitchenstatus.ByName(req.NewStatus)

	order, err := h.coordinator.ApplyKitchenStatusChange(ctx, req.RestaurantID, orderID, *status, req.Version)
	if err != nil {
		h.respondError(w, log, err, "Could not update kitchen order")
		return
	}

	apt.RespondSuccess(w, order)
}

func (h *Handler) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req RemoveRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateRemove(req); len(validationErrors) > 0 {
		apt.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, ", "))
		return
	}

	orderID, _ := uuid.Parse(req.OrderID)
	if err := h.queue.Remove(ctx, req.RestaurantID, orderID); err != nil {
		h.respondError(w, log, err, "Could not remove kitchen order")
		return
	}

	apt.RespondSuccess(w, map[string]string{"orderId": orderID.String(), "status": "removed"})
}

func (h *Handler) respondError(w http.ResponseWriter, log apt.Logger, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		apt.RespondError(w, http.StatusNotFound, "Kitchen order not found")
	case errors.Is(err, ErrIllegalTransition):
		apt.RespondError(w, http.StatusConflict, "Illegal status transition")
	case errors.Is(err, ErrVersionConflict):
		apt.RespondError(w, http.StatusConflict, "Kitchen order was modified concurrently")
	case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrInvalidStatus):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error(strings.ToLower(message), "error", err)
		apt.RespondError(w, http.StatusInternalServerError, message)
	}
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
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
