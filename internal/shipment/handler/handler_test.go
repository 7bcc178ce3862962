package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-shop-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/i18n"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/order/dto"
	orderrepo "github.com/fekuna/omnipos-shop-service/internal/order/repository"
	orderuc "github.com/fekuna/omnipos-shop-service/internal/order/usecase"
	"github.com/fekuna/omnipos-shop-service/internal/shipment/yalidine"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type fakeScheduler struct {
	ids    []string
	refuse bool
}

func (f *fakeScheduler) Schedule(orderID string) bool {
	if f.refuse {
		return false
	}
	f.ids = append(f.ids, orderID)
	return true
}

type fixture struct {
	e         *echo.Echo
	scheduler *fakeScheduler
	orderID   string
	partner   *httptest.Server
}

func newFixture(t *testing.T, token string) *fixture {
	t.Helper()
	partner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/wilayas/":
			_, _ = w.Write([]byte(`{"has_more":false,"data":[{"id":16,"name":"Alger"}]}`))
		case r.URL.Path == "/communes/":
			_, _ = w.Write([]byte(`{"data":[{"id":1601,"name":"Alger Centre","wilaya_id":` + r.URL.Query().Get("wilaya_id") + `}]}`))
		case r.URL.Path == "/centers/":
			_, _ = w.Write([]byte(`{"data":[]}`))
		case strings.HasPrefix(r.URL.Path, "/parcels/"):
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(partner.Close)

	db := dbtest.New(t)
	log := logger.NewNop()
	tr, err := i18n.New()
	require.NoError(t, err)

	orders := orderuc.NewOrderUseCase(orderrepo.NewSQLRepository(db), log)
	shoe := dbtest.SeedProduct(t, db, "Shoe", model.CategoryShoes, 1500, 900, dbtest.Variant{Color: "Black", Size: "42", Quantity: 3})
	o, err := orders.CreateOrder(t.Context(), &dto.CreateOrderInput{
		Items: []dto.OrderItemInput{{ProductID: shoe.ID, VariantID: shoe.Variants[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	client := yalidine.NewClient(yalidine.Config{BaseURL: partner.URL, APIID: "id", APIToken: token})
	sched := &fakeScheduler{}
	h := NewShipmentHandler(client, orders, sched, httpx.NewResponder(tr, log), log)

	e := echo.New()
	h.RegisterRoutes(e.Group("/api/yalidine"))
	return &fixture{e: e, scheduler: sched, orderID: o.ID, partner: partner}
}

func (f *fixture) do(t *testing.T, method, path string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestLookups(t *testing.T) {
	f := newFixture(t, "token")

	status, env := f.do(t, http.MethodGet, "/api/yalidine/wilayas")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":16,"name":"Alger"}]`, string(env.Data))

	status, env = f.do(t, http.MethodGet, "/api/yalidine/communes?wilaya_id=16")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":1601,"name":"Alger Centre","wilaya_id":16}]`, string(env.Data))

	status, env = f.do(t, http.MethodGet, "/api/yalidine/communes")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "wilaya_id is required", env.Error)

	status, _ = f.do(t, http.MethodGet, "/api/yalidine/centers")
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = f.do(t, http.MethodGet, "/api/yalidine/centers?wilaya_id=16")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, env = f.do(t, http.MethodGet, "/api/yalidine/tracking/yal-1")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, env.Success)
	assert.Equal(t, "The shipping partner is unavailable", env.Error)

	status, env = f.do(t, http.MethodGet, "/api/yalidine/status")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"configured":true}`, string(env.Data))
}

func TestDispatchEndpoint(t *testing.T) {
	f := newFixture(t, "token")

	status, env := f.do(t, http.MethodPost, "/api/yalidine/orders/"+f.orderID+"/dispatch")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Shipment dispatch scheduled"}`, string(env.Data))
	assert.Equal(t, []string{f.orderID}, f.scheduler.ids)

	status, _ = f.do(t, http.MethodPost, "/api/yalidine/orders/missing/dispatch")
	assert.Equal(t, http.StatusNotFound, status)

	f.scheduler.refuse = true
	status, _ = f.do(t, http.MethodPost, "/api/yalidine/orders/"+f.orderID+"/dispatch")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestDispatchEndpointUnconfigured(t *testing.T) {
	f := newFixture(t, "YOUR_TOKEN_HERE")

	status, env := f.do(t, http.MethodGet, "/api/yalidine/status")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"configured":false}`, string(env.Data))

	status, env = f.do(t, http.MethodPost, "/api/yalidine/orders/"+f.orderID+"/dispatch")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "The shipping partner is not configured", env.Error)
	assert.Empty(t, f.scheduler.ids)
}
