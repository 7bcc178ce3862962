package usecase

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/category"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

// ListCategories returns every known category in catalogue order, including
// the ones with no products yet.
func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.CategorySummary, error) {
	rows, err := uc.repo.Summaries(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[model.Category]model.CategorySummary, len(rows))
	for _, row := range rows {
		byName[row.Name] = row
	}

	out := make([]model.CategorySummary, 0, len(model.Categories))
	for _, c := range model.Categories {
		s, ok := byName[c]
		if !ok {
			s = model.CategorySummary{Name: c}
		}
		out = append(out, s)
	}
	return out, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, name string) (*model.CategorySummary, error) {
	c := model.Category(name)
	if !c.Valid() {
		return nil, apperr.NotFound("category_not_found", name, "category not found")
	}

	all, err := uc.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == c {
			return &all[i], nil
		}
	}
	return nil, apperr.NotFound("category_not_found", name, "category not found")
}
