package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuseats/campuseats-backend/internal/orders"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

type stubOrdersService struct {
	order      *orders.OrderDTO
	list       *orders.OrderList
	err        error
	lastParams orders.ListParams
}

func (s *stubOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) List(ctx context.Context, userID uuid.UUID, params orders.ListParams) (*orders.OrderList, error) {
	s.lastParams = params
	return s.list, s.err
}

func (s *stubOrdersService) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func orderRequest(method, target string, orderID uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", orderID.String())
	req := withUser(httptest.NewRequest(method, target, nil), uuid.New())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestOrdersListForwardsParams(t *testing.T) {
	svc := &stubOrdersService{list: &orders.OrderList{Items: []orders.OrderDTO{}}}
	handler := OrdersList(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/orders?limit=10&status=en+cours&cursor=abc", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastParams.Limit != 10 {
		t.Fatalf("expected limit 10 got %d", svc.lastParams.Limit)
	}
	if svc.lastParams.Status != "en cours" {
		t.Fatalf("expected status filter got %q", svc.lastParams.Status)
	}
	if svc.lastParams.Cursor != "abc" {
		t.Fatalf("expected cursor abc got %q", svc.lastParams.Cursor)
	}
}

func TestOrdersListRejectsBadLimit(t *testing.T) {
	handler := OrdersList(&stubOrdersService{}, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/orders?limit=zero", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrderGetReturnsOrder(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{order: &orders.OrderDTO{
		ID:          orderID,
		Status:      "livrée",
		TotalAmount: decimal.RequireFromString("30.97"),
	}}
	handler := OrderGet(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, orderRequest(http.MethodGet, "/api/orders/"+orderID.String(), orderID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != orderID || envelope.Data.Status != "livrée" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestOrderGetMissing(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := OrderGet(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, orderRequest(http.MethodGet, "/api/orders/x", uuid.New()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestOrderCancelStateConflict(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "only in-progress orders can be cancelled")}
	handler := OrderCancel(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, orderRequest(http.MethodPost, "/api/orders/x/cancel", uuid.New()))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestOrderCancelSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{order: &orders.OrderDTO{ID: orderID, Status: "annulée"}}
	handler := OrderCancel(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, orderRequest(http.MethodPost, "/api/orders/"+orderID.String()+"/cancel", orderID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != "annulée" {
		t.Fatalf("expected cancelled status got %s", envelope.Data.Status)
	}
}
