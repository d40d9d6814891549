package tables

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

	"github.com/appetiteclub/comandas/pkg/enums/tablestatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	store  *Store
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

func NewHandler(store *Store, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		store:  store,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Post("/", h.CreateTable)
		r.Get("/", h.ListTables)
		r.Get("/{id}", h.GetTable)
		r.Post("/{id}/orders", h.AppendOrder)
		r.Put("/{id}/status", h.SetStatus)
		r.Post("/{id}/release", h.ReleaseTable)
		r.Post("/{id}/move", h.MoveTable)
	})
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req TableCreateRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.RestaurantID == "" {
		req.RestaurantID = r.URL.Query().Get("restaurantId")
	}

	if validationErrors := ValidateTableCreate(req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, ", "))
		return
	}

	table, err := h.store.Create(ctx, req.RestaurantID, req.Number, req.Zone)
	if err != nil {
		if errors.Is(err, ErrDuplicateNumber) {
			apt.RespondError(w, http.StatusConflict, "Table number already in use")
			return
		}
		log.Error("cannot create table", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create table")
		return
	}

	links := apt.RESTfulLinksFor(table)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}

	var status *tablestatus.Status
	if name := r.URL.Query().Get("status"); name != "" {
		status = tablestatus.ByName(name)
		if status == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
	}

	tables, err := h.store.List(ctx, restaurantID, status)
	if err != nil {
		log.Error("error retrieving tables", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve tables")
		return
	}
	if tables == nil {
		tables = []*Table{}
	}

	apt.Respond(w, http.StatusOK, tables, nil)
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurantID, id, ok := h.scope(w, r, log)
	if !ok {
		return
	}

	table, err := h.store.Get(ctx, restaurantID, id)
	if err != nil {
		h.respondStoreError(w, log, err, "Could not load table")
		return
	}

	links := apt.RESTfulLinksFor(table)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) AppendOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AppendOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurantID, id, ok := h.scope(w, r, log)
	if !ok {
		return
	}

	var req AppendOrderRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateAppendOrder(req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, strings.Join(validationErrors, ", "))
		return
	}

	table, err := h.store.AppendOrder(ctx, restaurantID, id, req.CustomerName, req.Items)
	if err != nil {
		h.respondStoreError(w, log, err, "Could not append order")
		return
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetStatus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurantID, id, ok := h.scope(w, r, log)
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

	table, err := h.store.SetStatus(ctx, restaurantID, id, *tablestatus.ByName(req.Status))
	if err != nil {
		h.respondStoreError(w, log, err, "Could not update table")
		return
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) ReleaseTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReleaseTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurantID, id, ok := h.scope(w, r, log)
	if !ok {
		return
	}

	table, err := h.store.Release(ctx, restaurantID, id)
	if err != nil {
		h.respondStoreError(w, log, err, "Could not release table")
		return
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) MoveTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MoveTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurantID, id, ok := h.scope(w, r, log)
	if !ok {
		return
	}

	table, err := h.store.Move(ctx, restaurantID, id)
	if err != nil {
		h.respondStoreError(w, log, err, "Could not move table")
		return
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) respondStoreError(w http.ResponseWriter, log apt.Logger, err error, message string) {
	if errors.Is(err, ErrNotFound) {
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}
	log.Error(strings.ToLower(message), "error", err)
	apt.RespondError(w, http.StatusInternalServerError, message)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) restaurantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurantId"))
	if restaurantID == "" {
		apt.RespondError(w, http.StatusBadRequest, "restaurantId is required")
		return "", false
	}
	return restaurantID, true
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request, log apt.Logger) (string, uuid.UUID, bool) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return "", uuid.Nil, false
	}

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
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
