package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/product/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByIDWithVariants(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSQLRepository(db)
	seeded := dbtest.SeedProduct(t, db, "Classic Tee", model.CategoryTShirt, 25, 10,
		dbtest.Variant{Color: "White", Size: "M", Quantity: 4},
		dbtest.Variant{Color: "Black", Size: "L", Quantity: 2},
	)

	p, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "Classic Tee", p.ModelName)
	assert.Equal(t, 6, p.TotalStock)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, "Black", p.Variants[0].Color, "variants ordered by color")
}

func TestFindByIDMissing(t *testing.T) {
	repo := NewSQLRepository(dbtest.New(t))

	p, err := repo.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestFindAllFilters(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSQLRepository(db)
	tee := dbtest.SeedProduct(t, db, "Classic Tee", model.CategoryTShirt, 25, 10)
	dbtest.SeedProduct(t, db, "Slim Chino", model.CategoryPants, 50, 20)
	dbtest.SeedProduct(t, db, "Runner", model.CategoryShoes, 100, 60)
	ctx := context.Background()

	all, err := repo.FindAll(ctx, &dto.ProductFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pants, err := repo.FindAll(ctx, &dto.ProductFilters{Category: model.CategoryPants})
	require.NoError(t, err)
	require.Len(t, pants, 1)
	assert.Equal(t, "Slim Chino", pants[0].ModelName)

	search, err := repo.FindAll(ctx, &dto.ProductFilters{Search: "TEE"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, tee.ID, search[0].ID)
	assert.NotNil(t, search[0].Variants)

	byIDs, err := repo.FindAll(ctx, &dto.ProductFilters{IDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, byIDs)
}

func TestUpdateSyncsVariants(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()
	seeded := dbtest.SeedProduct(t, db, "Runner", model.CategoryShoes, 100, 60,
		dbtest.Variant{Color: "Black", Size: "42", Quantity: 3},
		dbtest.Variant{Color: "White", Size: "41", Quantity: 1},
	)

	keep := seeded.Variants[0]
	keep.Quantity = 9
	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: seeded.ID, UpdatedAt: now},
		ModelName:    "Runner II",
		Category:     model.CategoryShoes,
		SellingPrice: 120,
		CostPrice:    70,
		Variants: []model.ProductVariant{
			keep,
			{BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now}, Color: "Red", Size: "43", Quantity: 2},
		},
	}

	require.NoError(t, repo.Update(ctx, p, true))

	got, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Runner II", got.ModelName)
	assert.Equal(t, 120.0, got.SellingPrice)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, 11, got.TotalStock)
	assert.Equal(t, 9, dbtest.VariantQuantity(t, db, keep.ID))
	assert.Equal(t, 2, dbtest.Count(t, db, "product_variants"))
}

func TestUpdateWithoutVariantSync(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()
	seeded := dbtest.SeedProduct(t, db, "Runner", model.CategoryShoes, 100, 60,
		dbtest.Variant{Color: "Black", Size: "42", Quantity: 3},
	)
	seeded.Variants = nil
	seeded.SellingPrice = 90

	require.NoError(t, repo.Update(ctx, seeded, false))

	got, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.SellingPrice)
	assert.Len(t, got.Variants, 1)
}

func TestDelete(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSQLRepository(db)
	seeded := dbtest.SeedProduct(t, db, "Runner", model.CategoryShoes, 100, 60, dbtest.Variant{Color: "Black", Size: "42", Quantity: 3})

	deleted, err := repo.Delete(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, dbtest.Count(t, db, "product_variants"))

	deleted, err = repo.Delete(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListLowStockAndForOrder(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()
	dbtest.SeedProduct(t, db, "Runner", model.CategoryShoes, 100, 60,
		dbtest.Variant{Color: "Black", Size: "42", Quantity: 0},
		dbtest.Variant{Color: "White", Size: "41", Quantity: 8},
	)
	dbtest.SeedProduct(t, db, "Slim Chino", model.CategoryPants, 50, 20,
		dbtest.Variant{Color: "Beige", Size: "32", Quantity: 0},
	)

	low, err := repo.ListLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Runner", low[0].ModelName)
	assert.Equal(t, "Slim Chino", low[1].ModelName)

	forOrder, err := repo.ListForOrder(ctx)
	require.NoError(t, err)
	require.Len(t, forOrder, 1)
	require.Len(t, forOrder[0].Variants, 1)
	assert.Equal(t, "White", forOrder[0].Variants[0].Color)
}
