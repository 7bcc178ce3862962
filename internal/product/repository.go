package product

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	// Update writes the product fields. When syncVariants is set the variant
	// list replaces the stored one: missing ids are deleted, known ids updated,
	// the rest inserted.
	Update(ctx context.Context, product *model.Product, syncVariants bool) error
	Delete(ctx context.Context, id string) (bool, error)

	ListLowStock(ctx context.Context, threshold int) ([]model.VariantDetail, error)
	ListForOrder(ctx context.Context) ([]model.Product, error)
}
