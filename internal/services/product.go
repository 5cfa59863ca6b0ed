package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/medikart/pharmacy-storefront/internal/cache"
	"github.com/medikart/pharmacy-storefront/internal/models"
	"github.com/medikart/pharmacy-storefront/pkg/commerce"
)

// ProductService serves the catalog from the commerce API through a
// read-through cache. The remote API owns the catalog; admin writes pass
// through and invalidate the cached entries.
type ProductService struct {
	api   commerce.API
	cache cache.Cache
}

func NewProductService(api commerce.API, productCache cache.Cache) *ProductService {
	return &ProductService{api: api, cache: productCache}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {

	var cached []models.Product

	hit, err := s.cache.Get(ctx, cache.CatalogKey, &cached)
	if err != nil {
		slog.Warn("Catalog cache lookup failed", slog.String("error", err.Error()))
	}

	if hit {
		return cached, nil
	}

	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.CatalogKey, products, 0); err != nil {
		slog.Warn("Failed to cache catalog", slog.String("error", err.Error()))
	}

	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {

	key := cache.Key(cache.ProductKeyPrefix, strconv.FormatInt(id, 10))

	var cached models.Product

	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("Product cache lookup failed", slog.String("error", err.Error()))
	}

	if hit {
		return &cached, nil
	}

	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		slog.Warn("Failed to cache product", slog.String("error", err.Error()))
	}

	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product, err := s.api.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.ID)

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.api.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *ProductService) invalidate(ctx context.Context, id int64) {

	if err := s.cache.Delete(ctx, cache.CatalogKey); err != nil {
		slog.Warn("Failed to invalidate catalog cache", slog.String("error", err.Error()))
	}

	key := cache.Key(cache.ProductKeyPrefix, strconv.FormatInt(id, 10))

	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Warn("Failed to invalidate product cache", slog.String("error", err.Error()))
	}
}
