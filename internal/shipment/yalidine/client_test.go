package yalidine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", APIID: "id", APIToken: "token", FromWilaya: "Alger"})
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, NewClient(Config{APIID: "id", APIToken: "token"}).IsConfigured())
	assert.False(t, NewClient(Config{APIID: "id"}).IsConfigured())
	assert.False(t, NewClient(Config{APIToken: "token"}).IsConfigured())
	assert.False(t, NewClient(Config{APIID: "id", APIToken: "YOUR_TOKEN_HERE"}).IsConfigured())
}

func TestCreateParcelRequest(t *testing.T) {
	var got []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/parcels/", r.URL.Path)
		assert.Equal(t, "id", r.Header.Get("X-API-ID"))
		assert.Equal(t, "token", r.Header.Get("X-API-TOKEN"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"ORD-1":{"success":true,"order_id":"ORD-1","tracking":"yal-123","label":"https://label"}}`))
	})

	price := 449.6
	o := &model.Order{
		OrderNumber:   "ORD-1",
		TotalAmount:   3000,
		Firstname:     strPtr("Amine"),
		Familyname:    strPtr("B"),
		ContactPhone:  strPtr("0550"),
		Address:       strPtr("Rue 1"),
		ToWilayaName:  strPtr("Oran"),
		ToCommuneName: strPtr("Bir El Djir"),
		IsStopdesk:    true,
		YalidinePrice: &price,
	}

	res, err := c.CreateParcel(context.Background(), o, "Shoe (Black / 42) x2")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "yal-123", res.Tracking)
	assert.Equal(t, "https://label", *res.Label)

	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, "ORD-1", p["order_id"])
	assert.Equal(t, "Alger", p["from_wilaya_name"])
	assert.Equal(t, "Shoe (Black / 42) x2", p["product_list"])
	assert.Equal(t, 450.0, p["price"])
	assert.Equal(t, 450.0, p["declared_value"])
	assert.Equal(t, true, p["is_stopdesk"])
	assert.Equal(t, true, p["freeshipping"])
	assert.Equal(t, 0.5, p["weight"])
	assert.Nil(t, p["product_to_collect"])
}

func TestNewParcelFallsBackToTotal(t *testing.T) {
	c := NewClient(Config{FromWilaya: "Alger"})
	p := c.NewParcel(&model.Order{OrderNumber: "ORD-2", TotalAmount: 1999.5}, "x")
	assert.Equal(t, int64(2000), p.Price)
	assert.Equal(t, int64(2000), p.DeclaredValue)
	assert.False(t, p.IsStopdesk)
}

func TestParseParcelResultArray(t *testing.T) {
	res, err := parseParcelResult([]byte(`[{"tracking":"yal-9","state":"En préparation"}]`), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "yal-9", res.Tracking)
	assert.Equal(t, "En préparation", res.State)

	res, err = parseParcelResult([]byte(`[]`), "ORD-1")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestErrorStatusIsDependency(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"down"}`))
	})

	_, err := c.Wilayas(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrDependency)
	assert.Contains(t, err.Error(), "502")
}

func TestListUnwrapsData(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"paged", `{"has_more":false,"total_data":2,"data":[{"id":1},{"id":2}]}`, 2},
		{"bare array", `[{"id":1}]`, 1},
		{"unexpected object", `{"message":"nothing"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			items, err := c.Wilayas(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestLookupQueries(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	ctx := context.Background()
	_, err := c.Communes(ctx, "16")
	require.NoError(t, err)
	_, err = c.Centers(ctx, "16", "")
	require.NoError(t, err)
	_, err = c.Centers(ctx, "16", "1601")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/communes/?is_deliverable=true&page=1&page_size=200&wilaya_id=16",
		"/centers/?page_size=200&wilaya_id=16",
		"/centers/?commune_id=1601&page_size=200&wilaya_id=16",
	}, paths)
}

func TestTracking(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parcels/yal-1/", r.URL.Path)
		_, _ = w.Write([]byte(`{"tracking":"yal-1","last_status":"Livré"}`))
	})

	raw, err := c.Tracking(context.Background(), "yal-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"tracking":"yal-1","last_status":"Livré"}`, string(raw))
}
