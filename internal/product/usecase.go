package product

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListLowStock(ctx context.Context, threshold int) ([]model.VariantDetail, error)
	ListForOrder(ctx context.Context) ([]model.Product, error)

	// InvalidateCache drops cached product lists after stock moved elsewhere.
	InvalidateCache(ctx context.Context)
}
