package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-shop-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/order/dto"
	orderrepo "github.com/fekuna/omnipos-shop-service/internal/order/repository"
	orderuc "github.com/fekuna/omnipos-shop-service/internal/order/usecase"
	"github.com/fekuna/omnipos-shop-service/internal/shipment/yalidine"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePartner struct {
	mu         sync.Mutex
	configured bool
	result     *yalidine.ParcelResult
	err        error
	lists      []string
}

func (f *fakePartner) IsConfigured() bool { return f.configured }

func (f *fakePartner) CreateParcel(_ context.Context, o *model.Order, productList string) (*yalidine.ParcelResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, productList)
	return f.result, f.err
}

func (f *fakePartner) Wilayas(context.Context) ([]json.RawMessage, error) { return nil, nil }
func (f *fakePartner) Communes(context.Context, string) ([]json.RawMessage, error) {
	return nil, nil
}
func (f *fakePartner) Centers(context.Context, string, string) ([]json.RawMessage, error) {
	return nil, nil
}
func (f *fakePartner) Tracking(context.Context, string) (json.RawMessage, error) { return nil, nil }

func strPtr(s string) *string { return &s }

func shippingCustomer() dto.CustomerInput {
	return dto.CustomerInput{
		Firstname:     strPtr("Amine"),
		Familyname:    strPtr("Benali"),
		ContactPhone:  strPtr("0550123456"),
		Address:       strPtr("12 Rue Didouche"),
		ToWilayaName:  strPtr("Alger"),
		ToCommuneName: strPtr("Hydra"),
	}
}

func createOrder(t *testing.T, db *sqlx.DB, customer dto.CustomerInput) *model.Order {
	t.Helper()
	shoe := dbtest.SeedProduct(t, db, "Shoe", model.CategoryShoes, 1500, 900,
		dbtest.Variant{Color: "Black", Size: "42", Quantity: 5},
		dbtest.Variant{Color: "White", Size: "40", Quantity: 5})

	uc := orderuc.NewOrderUseCase(orderrepo.NewSQLRepository(db), logger.NewNop())
	o, err := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		Items: []dto.OrderItemInput{
			{ProductID: shoe.ID, VariantID: shoe.Variants[0].ID, Quantity: 2},
			{ProductID: shoe.ID, VariantID: shoe.Variants[1].ID, Quantity: 1},
		},
		Customer: customer,
	})
	require.NoError(t, err)
	return o
}

func TestDispatchOrderStoresTracking(t *testing.T) {
	db := dbtest.New(t)
	repo := orderrepo.NewSQLRepository(db)
	o := createOrder(t, db, shippingCustomer())

	partner := &fakePartner{configured: true, result: &yalidine.ParcelResult{Tracking: "yal-42", Label: strPtr("https://label/42")}}
	uc := NewShipmentUseCase(repo, partner, logger.NewNop())

	require.NoError(t, uc.DispatchOrder(context.Background(), o.ID))

	stored, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.YalidineTracking)
	assert.Equal(t, "yal-42", *stored.YalidineTracking)
	assert.Equal(t, "submitted", *stored.YalidineStatus)
	assert.Equal(t, "https://label/42", *stored.YalidineLabel)
	assert.Equal(t, []string{"Shoe (Black / 42) x2, Shoe (White / 40) x1"}, partner.lists)

	// a second dispatch is a no-op once tracked
	require.NoError(t, uc.DispatchOrder(context.Background(), o.ID))
	assert.Len(t, partner.lists, 1)
}

func TestDispatchOrderUsesPartnerState(t *testing.T) {
	db := dbtest.New(t)
	repo := orderrepo.NewSQLRepository(db)
	o := createOrder(t, db, shippingCustomer())

	partner := &fakePartner{configured: true, result: &yalidine.ParcelResult{Tracking: "yal-1", State: "En préparation"}}
	require.NoError(t, NewShipmentUseCase(repo, partner, logger.NewNop()).DispatchOrder(context.Background(), o.ID))

	stored, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "En préparation", *stored.YalidineStatus)
	assert.Nil(t, stored.YalidineLabel)
}

func TestDispatchOrderSkips(t *testing.T) {
	db := dbtest.New(t)
	repo := orderrepo.NewSQLRepository(db)
	ctx := context.Background()

	partial := shippingCustomer()
	partial.Address = strPtr("  ")
	unshippable := createOrder(t, db, partial)
	shippable := createOrder(t, db, shippingCustomer())

	configured := &fakePartner{configured: true, result: &yalidine.ParcelResult{Tracking: "x"}}
	uc := NewShipmentUseCase(repo, configured, logger.NewNop())
	require.NoError(t, uc.DispatchOrder(ctx, "missing"))
	require.NoError(t, uc.DispatchOrder(ctx, unshippable.ID))
	assert.Empty(t, configured.lists)

	unconfigured := &fakePartner{}
	require.NoError(t, NewShipmentUseCase(repo, unconfigured, logger.NewNop()).DispatchOrder(ctx, shippable.ID))
	assert.Empty(t, unconfigured.lists)

	stored, err := repo.FindByID(ctx, shippable.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.YalidineTracking)
}

func TestDispatchOrderPartnerFailureLeavesOrder(t *testing.T) {
	db := dbtest.New(t)
	repo := orderrepo.NewSQLRepository(db)
	o := createOrder(t, db, shippingCustomer())

	partner := &fakePartner{configured: true, err: errors.New("502")}
	err := NewShipmentUseCase(repo, partner, logger.NewNop()).DispatchOrder(context.Background(), o.ID)
	require.Error(t, err)

	stored, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.YalidineTracking)
	assert.Equal(t, 3000.0+1500.0, stored.TotalAmount)
}

func TestProductList(t *testing.T) {
	assert.Equal(t, "", ProductList(nil))
	assert.Equal(t, "Tee (Red / M) x3", ProductList([]model.OrderItem{{ProductName: "Tee", VariantInfo: "Red / M", Quantity: 3}}))
}
