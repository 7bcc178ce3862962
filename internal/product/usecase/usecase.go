package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/cache"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/product"
	"github.com/fekuna/omnipos-shop-service/internal/product/dto"
	"github.com/fekuna/omnipos-shop-service/internal/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "products:list:"
	cacheTTL       = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"model_name": { "type": "text" },
			"category": { "type": "keyword" },
			"selling_price": { "type": "double" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo    product.Repository
	cache   *cache.RedisClient
	es      *search.Client
	esIndex string
	logger  logger.ZapLogger
}

// NewProductUseCase wires the store. cache and es are optional.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, esIndex string, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:    repo,
		cache:   cache,
		es:      es,
		esIndex: esIndex,
		logger:  log,
	}
}

func validatePrices(selling, cost float64) error {
	for _, v := range []float64{selling, cost} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return apperr.Validation("invalid_price", "price", "prices must be zero or greater")
		}
	}
	return nil
}

func validateProduct(name string, category model.Category, selling, cost float64, variants []dto.VariantInput) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("model_name_required", "model_name", "model name is required")
	}
	if !category.Valid() {
		return apperr.Validation("invalid_category", "category", "invalid category")
	}
	if err := validatePrices(selling, cost); err != nil {
		return err
	}
	for _, v := range variants {
		if v.Quantity < 0 {
			return apperr.Validation("invalid_quantity", "quantity", "variant quantity cannot be negative")
		}
	}
	return nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validateProduct(input.ModelName, input.Category, input.SellingPrice, input.CostPrice, input.Variants); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ModelName:    strings.TrimSpace(input.ModelName),
		Category:     input.Category,
		SellingPrice: input.SellingPrice,
		CostPrice:    input.CostPrice,
		Image:        input.Image,
		Variants:     make([]model.ProductVariant, 0, len(input.Variants)),
	}
	for _, v := range input.Variants {
		p.Variants = append(p.Variants, model.ProductVariant{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			ProductID: p.ID,
			Color:     strings.TrimSpace(v.Color),
			Size:      strings.TrimSpace(v.Size),
			Quantity:  v.Quantity,
		})
		p.TotalStock += v.Quantity
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.afterWrite(p)
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product_not_found", id, "product not found: "+id)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if filters.Category != "" && !filters.Category.Valid() {
		return nil, apperr.Validation("invalid_category", "category", "invalid category")
	}

	cacheKey := uc.generateCacheKey(filters)
	if uc.cache != nil && cacheKey != "" {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var products []model.Product
			if err := json.Unmarshal([]byte(val), &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := uc.searchProducts(ctx, filters)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && cacheKey != "" {
		if data, err := json.Marshal(products); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, cacheTTL)
		}
	}
	return products, nil
}

// searchProducts resolves text search through Elasticsearch when available,
// falling back to the database LIKE filter.
func (uc *productUseCase) searchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if filters.Search != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"query_string": map[string]interface{}{
					"query":  fmt.Sprintf("*%s*", filters.Search),
					"fields": []string{"model_name"},
				},
			},
			"size":    500,
			"_source": false,
		}
		res, err := uc.es.Search(ctx, uc.esIndex, q)
		if err == nil {
			ids := make([]string, 0, len(res.Hits.Hits))
			for _, hit := range res.Hits.Hits {
				ids = append(ids, hit.ID)
			}
			return uc.repo.FindAll(ctx, &dto.ProductFilters{Category: filters.Category, IDs: ids})
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validateProduct(input.ModelName, input.Category, input.SellingPrice, input.CostPrice, input.Variants); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product_not_found", input.ID, "product not found: "+input.ID)
	}

	now := time.Now().UTC()
	p.ModelName = strings.TrimSpace(input.ModelName)
	p.Category = input.Category
	p.SellingPrice = input.SellingPrice
	p.CostPrice = input.CostPrice
	if input.Image != nil {
		p.Image = input.Image
	}
	p.UpdatedAt = now

	syncVariants := input.Variants != nil
	if syncVariants {
		variants := make([]model.ProductVariant, 0, len(input.Variants))
		for _, v := range input.Variants {
			variants = append(variants, model.ProductVariant{
				BaseModel: model.BaseModel{ID: v.ID, CreatedAt: now, UpdatedAt: now},
				ProductID: p.ID,
				Color:     strings.TrimSpace(v.Color),
				Size:      strings.TrimSpace(v.Size),
				Quantity:  v.Quantity,
			})
		}
		p.Variants = variants
	}

	if err := uc.repo.Update(ctx, p, syncVariants); err != nil {
		return nil, err
	}

	updated, err := uc.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("product_not_found", p.ID, "product not found: "+p.ID)
	}

	uc.afterWrite(updated)
	return updated, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("product_not_found", id, "product not found: "+id)
	}

	if uc.cache != nil {
		go uc.InvalidateCache(context.Background())
	}
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), uc.esIndex, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) ListLowStock(ctx context.Context, threshold int) ([]model.VariantDetail, error) {
	if threshold < 0 {
		return nil, apperr.Validation("validation_failed", "threshold", "threshold cannot be negative")
	}
	return uc.repo.ListLowStock(ctx, threshold)
}

func (uc *productUseCase) ListForOrder(ctx context.Context) ([]model.Product, error) {
	return uc.repo.ListForOrder(ctx)
}

func (uc *productUseCase) afterWrite(p *model.Product) {
	if uc.cache != nil {
		go uc.InvalidateCache(context.Background())
	}
	if uc.es != nil {
		go uc.syncToElastic(context.Background(), *p)
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p model.Product) {
	_ = uc.es.CreateIndex(ctx, uc.esIndex, indexMapping)

	doc := map[string]interface{}{
		"model_name":    p.ModelName,
		"category":      p.Category,
		"selling_price": p.SellingPrice,
		"created_at":    p.CreatedAt,
	}
	if err := uc.es.Index(ctx, uc.esIndex, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s%x", cacheKeyPrefix, md5.Sum(data))
}

func (uc *productUseCase) InvalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, cacheKeyPrefix+"*").Result()
	if err != nil {
		uc.logger.Warn("failed to list product cache keys", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}
