// Package yalidine talks to the Yalidine parcel API.
package yalidine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/model"
)

const placeholderToken = "YOUR_TOKEN_HERE"

type Config struct {
	BaseURL    string
	APIID      string
	APIToken   string
	FromWilaya string
	Timeout    time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) IsConfigured() bool {
	return c.cfg.APIID != "" && c.cfg.APIToken != "" && c.cfg.APIToken != placeholderToken
}

type Parcel struct {
	OrderID          string  `json:"order_id"`
	FromWilayaName   string  `json:"from_wilaya_name"`
	Firstname        string  `json:"firstname"`
	Familyname       string  `json:"familyname"`
	ContactPhone     string  `json:"contact_phone"`
	Address          string  `json:"address"`
	ToCommuneName    string  `json:"to_commune_name"`
	ToWilayaName     string  `json:"to_wilaya_name"`
	ProductList      string  `json:"product_list"`
	Price            int64   `json:"price"`
	DoInsurance      bool    `json:"do_insurance"`
	DeclaredValue    int64   `json:"declared_value"`
	Length           int     `json:"length"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Weight           float64 `json:"weight"`
	FreeShipping     bool    `json:"freeshipping"`
	IsStopdesk       bool    `json:"is_stopdesk"`
	HasExchange      bool    `json:"has_exchange"`
	ProductToCollect *string `json:"product_to_collect"`
}

// ParcelResult is one created parcel as reported by the partner.
type ParcelResult struct {
	Success  bool    `json:"success"`
	OrderID  string  `json:"order_id"`
	Tracking string  `json:"tracking"`
	State    string  `json:"state"`
	Label    *string `json:"label"`
	Message  string  `json:"message"`
}

// NewParcel builds the parcel request for a stored order.
func (c *Client) NewParcel(o *model.Order, productList string) Parcel {
	value := o.TotalAmount
	if o.YalidinePrice != nil {
		value = *o.YalidinePrice
	}
	price := int64(math.Round(value))

	return Parcel{
		OrderID:        o.OrderNumber,
		FromWilayaName: c.cfg.FromWilaya,
		Firstname:      deref(o.Firstname),
		Familyname:     deref(o.Familyname),
		ContactPhone:   deref(o.ContactPhone),
		Address:        deref(o.Address),
		ToCommuneName:  deref(o.ToCommuneName),
		ToWilayaName:   deref(o.ToWilayaName),
		ProductList:    productList,
		Price:          price,
		DeclaredValue:  price,
		Length:         30,
		Width:          20,
		Height:         10,
		Weight:         0.5,
		FreeShipping:   true,
		IsStopdesk:     o.IsStopdesk,
	}
}

// CreateParcel submits a single parcel. The returned result is nil when the
// partner answered without a tracking number.
func (c *Client) CreateParcel(ctx context.Context, o *model.Order, productList string) (*ParcelResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/parcels/", []Parcel{c.NewParcel(o, productList)})
	if err != nil {
		return nil, err
	}
	return parseParcelResult(body, o.OrderNumber)
}

// parseParcelResult accepts both an array of results and an object keyed by order_id.
func parseParcelResult(body []byte, orderNumber string) (*ParcelResult, error) {
	var list []ParcelResult
	if err := json.Unmarshal(body, &list); err == nil {
		for i := range list {
			if list[i].Tracking != "" {
				return &list[i], nil
			}
		}
		return nil, nil
	}

	var byOrder map[string]ParcelResult
	if err := json.Unmarshal(body, &byOrder); err != nil {
		return nil, apperr.Dependency("shipping_unavailable", "unexpected parcel response", err)
	}
	if r, ok := byOrder[orderNumber]; ok && r.Tracking != "" {
		return &r, nil
	}
	for _, r := range byOrder {
		if r.Tracking != "" {
			return &r, nil
		}
	}
	return nil, nil
}

func (c *Client) Wilayas(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, "/wilayas/")
}

// Communes lists the deliverable communes of a wilaya.
func (c *Client) Communes(ctx context.Context, wilayaID string) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("page_size", "200")
	q.Set("is_deliverable", "true")
	q.Set("wilaya_id", wilayaID)
	return c.list(ctx, "/communes/?"+q.Encode())
}

// Centers lists stop-desk centers. communeID may be empty.
func (c *Client) Centers(ctx context.Context, wilayaID, communeID string) ([]json.RawMessage, error) {
	q := url.Values{}
	if wilayaID != "" {
		q.Set("wilaya_id", wilayaID)
	}
	if communeID != "" {
		q.Set("commune_id", communeID)
	}
	q.Set("page_size", "200")
	return c.list(ctx, "/centers/?"+q.Encode())
}

func (c *Client) Tracking(ctx context.Context, tracking string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/parcels/"+url.PathEscape(tracking)+"/", nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		quoted, _ := json.Marshal(string(body))
		return quoted, nil
	}
	return body, nil
}

// list unwraps the {data: [...], has_more, total_data} page; anything else
// that is not an array yields an empty list.
func (c *Client) list(ctx context.Context, path string) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var page struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &page); err == nil && page.Data != nil {
		return page.Data, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err == nil && items != nil {
		return items, nil
	}
	return []json.RawMessage{}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal yalidine request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build yalidine request: %w", err)
	}
	req.Header.Set("X-API-ID", c.cfg.APIID)
	req.Header.Set("X-API-TOKEN", c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Dependency("shipping_unavailable", "yalidine request failed", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperr.Dependency("shipping_unavailable", "read yalidine response", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, apperr.Dependency("shipping_unavailable",
			fmt.Sprintf("yalidine API error %d", res.StatusCode),
			fmt.Errorf("%s", strings.TrimSpace(string(body))))
	}
	return body, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
