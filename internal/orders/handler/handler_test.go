package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"logitrack/internal/inventory"
	jwttoken "logitrack/internal/jwt_token"
	"logitrack/internal/memstore"
	"logitrack/internal/orders"
	"logitrack/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	items        *memstore.ItemStore
	router       chi.Router
	userToken    string
	managerToken string
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := jwttoken.NewJWTService("test-signing-key", "test-issuer", "test-audience")

	mem := memstore.New()
	s.items = mem.Items()
	service := orders.NewService(mem.Orders(), s.items, logger, nil, nil)

	s.router = chi.NewRouter()
	New(service, logger, jwtService).Register(s.router)

	var err error
	s.userToken, err = jwtService.GenerateAccessToken(uuid.New(), "user@example.com", nil, time.Hour)
	s.Require().NoError(err)
	s.managerToken, err = jwtService.GenerateAccessToken(uuid.New(), "manager@example.com", []string{RoleManager}, time.Hour)
	s.Require().NoError(err)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) seedItem(name string) inventory.Item {
	item, err := s.items.Insert(context.Background(), inventory.Item{Name: name, Quantity: 10, Location: "A1"})
	s.Require().NoError(err)
	return item
}

func (s *HandlerSuite) placeOrder(itemID int64) orders.Projection {
	body := orders.CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []orders.LineRequest{{ItemID: itemID, Quantity: 2}},
	}
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/orders", body)
	req.Header.Set("Authorization", "Bearer "+s.userToken)
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)
	return *testutil.UnmarshalResponse[orders.Projection](s.T(), rr)
}

func (s *HandlerSuite) TestRoutesRequireAuth() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/orders", nil)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *HandlerSuite) TestCreateAndGet() {
	item := s.seedItem("Pallet")
	created := s.placeOrder(item.ID)
	s.Equal("Acme Corp", created.CustomerName)
	s.Require().Len(created.Items, 1)
	s.Equal("Pallet", created.Items[0].ItemName)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, fmt.Sprintf("/api/orders/%d", created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+s.userToken)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code)

	fetched := testutil.UnmarshalResponse[orders.Projection](s.T(), rr)
	s.Equal(created.ID, fetched.ID)
}

func (s *HandlerSuite) TestCreateValidationFailures() {
	item := s.seedItem("Pallet")

	cases := []struct {
		name string
		body orders.CreateOrderRequest
	}{
		{"blank customer", orders.CreateOrderRequest{CustomerName: "  ", Items: []orders.LineRequest{{ItemID: item.ID, Quantity: 1}}}},
		{"no lines", orders.CreateOrderRequest{CustomerName: "Acme Corp"}},
		{"zero quantity", orders.CreateOrderRequest{CustomerName: "Acme Corp", Items: []orders.LineRequest{{ItemID: item.ID, Quantity: 0}}}},
		{"unknown item", orders.CreateOrderRequest{CustomerName: "Acme Corp", Items: []orders.LineRequest{{ItemID: 999, Quantity: 1}}}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/orders", tc.body)
			req.Header.Set("Authorization", "Bearer "+s.userToken)
			rr := testutil.DoRequest(s.router, req)
			s.Equal(http.StatusBadRequest, rr.Code)
		})
	}
}

func (s *HandlerSuite) TestGetUnknownOrder() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/orders/999", nil)
	req.Header.Set("Authorization", "Bearer "+s.userToken)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *HandlerSuite) TestList() {
	item := s.seedItem("Pallet")
	s.placeOrder(item.ID)
	s.placeOrder(item.ID)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+s.userToken)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code)

	listed := testutil.UnmarshalResponse[[]orders.Projection](s.T(), rr)
	s.Len(*listed, 2)
}

func (s *HandlerSuite) TestDeleteRequiresManagerRole() {
	item := s.seedItem("Pallet")
	created := s.placeOrder(item.ID)

	req := testutil.NewJSONRequest(s.T(), http.MethodDelete, fmt.Sprintf("/api/orders/%d", created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+s.userToken)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusForbidden, rr.Code)

	req = testutil.NewJSONRequest(s.T(), http.MethodDelete, fmt.Sprintf("/api/orders/%d", created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+s.managerToken)
	rr = testutil.DoRequest(s.router, req)
	s.Equal(http.StatusNoContent, rr.Code)

	req = testutil.NewJSONRequest(s.T(), http.MethodDelete, fmt.Sprintf("/api/orders/%d", created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+s.managerToken)
	rr = testutil.DoRequest(s.router, req)
	s.Equal(http.StatusNotFound, rr.Code)
}
