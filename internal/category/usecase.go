package category

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/model"
)

type UseCase interface {
	ListCategories(ctx context.Context) ([]model.CategorySummary, error)
	GetCategory(ctx context.Context, name string) (*model.CategorySummary, error)
}
