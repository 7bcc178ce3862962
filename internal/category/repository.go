package category

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/model"
)

type Repository interface {
	// Summaries returns one row per category that has at least one product.
	Summaries(ctx context.Context) ([]model.CategorySummary, error)
}
