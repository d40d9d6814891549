package kitchen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/enums/kitchenstatus"
)

func newKitchenRouter() (chi.Router, *Queue, *MockOrderRepo) {
	q, repo, _ := newTestQueue()
	h := NewHandler(q, queueCoordinator{queue: q}, apt.NewConfig(), apt.NewNoopLogger())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, q, repo
}

func TestHandlerRegisterRoutes(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)
	r := chi.NewRouter()

	// Should not panic
	h.RegisterRoutes(r)
}

func TestHandlerListOrders(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupRepo      func(*MockOrderRepo)
		expectedStatus int
		expectedCount  int
	}{
		{name: "listAll", query: "?restaurantId=resto-1", expectedStatus: http.StatusOK, expectedCount: 2},
		{name: "filterByStatus", query: "?restaurantId=resto-1&status=ready", expectedStatus: http.StatusOK, expectedCount: 1},
		{name: "emptyResult", query: "?restaurantId=resto-1&status=preparing", expectedStatus: http.StatusOK, expectedCount: 0},
		{name: "missingRestaurant", query: "?status=ready", expectedStatus: http.StatusBadRequest},
		{name: "unknownStatus", query: "?restaurantId=resto-1&status=burnt", expectedStatus: http.StatusBadRequest},
		{
			name:  "repoError",
			query: "?restaurantId=resto-1",
			setupRepo: func(r *MockOrderRepo) {
				r.ListFunc = func(ctx context.Context, restaurantID, status string) ([]*Order, error) {
					return nil, errors.New("database error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, q, repo := newKitchenRouter()
			ctx := context.Background()
			first, _ := q.Submit(ctx, burgerInput("1"))
			q.Submit(ctx, burgerInput(DestinationTakeaway))
			q.Transition(ctx, "resto-1", first.ID, kitchenstatus.Statuses.Ready, 0)
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}

			req := httptest.NewRequest(http.MethodGet, "/kitchen-orders"+tt.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("ListOrders() status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &resp)
			orders, ok := resp["data"].([]interface{})
			if !ok {
				t.Fatalf("Response does not contain data array: %s", w.Body.String())
			}
			if len(orders) != tt.expectedCount {
				t.Errorf("orders count = %d, want %d", len(orders), tt.expectedCount)
			}
		})
	}
}

func TestHandlerSubmitOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "tableOrder",
			body:           `{"restaurantId":"resto-1","destination":"12","items":[{"name":"Burger","quantity":2,"unitPrice":10,"lineTotal":20}],"total":20}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "deliveryOrder",
			body:           `{"restaurantId":"resto-1","destination":"DELIVERY","customerName":"Ana","address":"Calle 1","items":[{"name":"Pizza","quantity":1,"unitPrice":35}],"total":35}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "itemContentNotChecked",
			body:           `{"restaurantId":"resto-1","destination":"TAKEAWAY","items":[{"name":"","quantity":0}]}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "emptyItems",
			body:           `{"restaurantId":"resto-1","destination":"12","items":[]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missingDestination",
			body:           `{"restaurantId":"resto-1","items":[{"name":"Tea","quantity":1}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missingRestaurant",
			body:           `{"destination":"12","items":[{"name":"Tea","quantity":1}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalidParent",
			body:           `{"restaurantId":"resto-1","destination":"12","items":[{"name":"Tea","quantity":1}],"parentOrderId":"nope"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "emptyBody",
			body:           "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newKitchenRouter()

			req := httptest.NewRequest(http.MethodPost, "/kitchen-orders", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("SubmitOrder() status = %d, want %d: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestHandlerChangeStatus(t *testing.T) {
	tests := []struct {
		name           string
		prepare        func(ctx context.Context, q *Queue, id uuid.UUID)
		orderID        func(id uuid.UUID) string
		newStatus      string
		version        int
		expectedStatus int
	}{
		{name: "toReady", newStatus: "ready", expectedStatus: http.StatusOK},
		{name: "withMatchingVersion", newStatus: "preparing", version: 1, expectedStatus: http.StatusOK},
		{name: "withStaleVersion", newStatus: "preparing", version: 7, expectedStatus: http.StatusConflict},
		{
			name: "backwardTransition",
			prepare: func(ctx context.Context, q *Queue, id uuid.UUID) {
				q.Transition(ctx, "resto-1", id, kitchenstatus.Statuses.Ready, 0)
			},
			newStatus:      "pending",
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknownOrder",
			orderID:        func(uuid.UUID) string { return uuid.New().String() },
			newStatus:      "ready",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalidOrderID",
			orderID:        func(uuid.UUID) string { return "not-a-uuid" },
			newStatus:      "ready",
			expectedStatus: http.StatusBadRequest,
		},
		{name: "unknownStatus", newStatus: "burnt", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, q, _ := newKitchenRouter()
			ctx := context.Background()
			order, _ := q.Submit(ctx, burgerInput("12"))
			if tt.prepare != nil {
				tt.prepare(ctx, q, order.ID)
			}

			id := order.ID.String()
			if tt.orderID != nil {
				id = tt.orderID(order.ID)
			}
			body, _ := json.Marshal(StatusChangeRequest{RestaurantID: "resto-1", OrderID: id, NewStatus: tt.newStatus, Version: tt.version})

			req := httptest.NewRequest(http.MethodPut, "/kitchen-orders", bytes.NewBuffer(body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("ChangeStatus() status = %d, want %d: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestHandlerFulfilledOrderDisappears(t *testing.T) {
	r, q, _ := newKitchenRouter()
	ctx := context.Background()
	order, _ := q.Submit(ctx, burgerInput("12"))
	q.Transition(ctx, "resto-1", order.ID, kitchenstatus.Statuses.Ready, 0)

	body, _ := json.Marshal(StatusChangeRequest{RestaurantID: "resto-1", OrderID: order.ID.String(), NewStatus: "fulfilled"})
	req := httptest.NewRequest(http.MethodPut, "/kitchen-orders", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	orders, _ := q.ListByStatus(ctx, "resto-1", nil)
	if len(orders) != 0 {
		t.Errorf("fulfilled order still listed")
	}
}

func TestHandlerRemoveOrder(t *testing.T) {
	tests := []struct {
		name           string
		existing       bool
		orderID        string
		expectedStatus int
	}{
		{name: "existingOrder", existing: true, expectedStatus: http.StatusOK},
		{name: "missingOrder", orderID: uuid.New().String(), expectedStatus: http.StatusNotFound},
		{name: "invalidOrderID", orderID: "bad", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, q, _ := newKitchenRouter()
			order, _ := q.Submit(context.Background(), burgerInput("12"))

			id := tt.orderID
			if tt.existing {
				id = order.ID.String()
			}
			body, _ := json.Marshal(RemoveRequest{RestaurantID: "resto-1", OrderID: id})

			req := httptest.NewRequest(http.MethodDelete, "/kitchen-orders", bytes.NewBuffer(body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("RemoveOrder() status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}
