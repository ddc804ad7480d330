package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/singleflight"

	"storefront/internal/apperror"
	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/repository"
)

const listPrefix = "products:list:"

// ProductService serves catalog reads through a cache. The cart and order
// services never go through it; they read stock from the store directly.
type ProductService struct {
	repo    ProductStore
	cache   cache.Store
	ttl     time.Duration
	listTTL time.Duration
	sfg     singleflight.Group
}

func NewProductService(repo ProductStore, store cache.Store, ttl time.Duration) *ProductService {
	return &ProductService{
		repo:    repo,
		cache:   store,
		ttl:     ttl,
		listTTL: ttl / 2,
	}
}

func (s *ProductService) List(ctx context.Context, f models.ProductFilter) (*models.ProductPage, error) {
	key := fmt.Sprintf("%sp%d_s%d_cat:%s_sort:%s", listPrefix, f.Page, f.PageSize, f.Category, f.SortBy)

	var cached models.ProductPage
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		slog.Warn("cache get error", "key", key, "err", err)
	} else if found {
		return &cached, nil
	}

	page, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, storeErr("list products", err)
	}

	if err := s.cache.Set(ctx, key, page, s.listTTL); err != nil {
		slog.Warn("cache set error", "key", key, "err", err)
	}
	return page, nil
}

func (s *ProductService) Get(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := parseID(rawID, "ID sản phẩm")
	if err != nil {
		return nil, err
	}
	key := productKey(rawID)

	var cached models.Product
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		slog.Warn("cache get error", "key", key, "err", err)
	} else if found {
		return &cached, nil
	}

	// concurrent misses for one product share a single store read
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		product, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, product, s.ttl); err != nil {
			slog.Warn("cache set error", "key", key, "err", err)
		}
		return product, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.New(apperror.ProductNotFound, "Không tìm thấy sản phẩm")
		}
		return nil, storeErr("get product", err)
	}
	return v.(*models.Product), nil
}

func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return storeErr("create product", err)
	}
	s.invalidate(ctx, "")
	return nil
}

// Update applies the non-nil fields of u and returns the stored product.
func (s *ProductService) Update(ctx context.Context, rawID string, u models.ProductUpdate) (*models.Product, error) {
	id, err := parseID(rawID, "ID sản phẩm")
	if err != nil {
		return nil, err
	}

	update := updateDocument(u)
	if len(update) == 0 {
		return nil, apperror.NewValidation("no valid fields to update")
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.New(apperror.ProductNotFound, "Không tìm thấy sản phẩm")
		}
		return nil, storeErr("update product", err)
	}
	s.invalidate(ctx, rawID)

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("reload product", err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, "ID sản phẩm")
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return apperror.New(apperror.ProductNotFound, "Không tìm thấy sản phẩm")
		}
		return storeErr("delete product", err)
	}
	s.invalidate(ctx, rawID)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, rawID string) {
	if rawID != "" {
		if err := s.cache.Delete(ctx, productKey(rawID)); err != nil {
			slog.Warn("cache invalidate error", "id", rawID, "err", err)
		}
	}
	if err := s.cache.DeleteByPrefix(ctx, listPrefix); err != nil {
		slog.Warn("cache invalidate error", "prefix", listPrefix, "err", err)
	}
}

func productKey(id string) string {
	return "product:" + id
}

func updateDocument(u models.ProductUpdate) bson.M {
	update := bson.M{}
	if u.Name != nil {
		update["name"] = *u.Name
	}
	if u.Price != nil {
		update["price"] = *u.Price
	}
	if u.OriginalPrice != nil {
		update["original_price"] = *u.OriginalPrice
	}
	if u.Discount != nil {
		update["discount"] = *u.Discount
	}
	if u.Image != nil {
		update["image"] = *u.Image
	}
	if u.Category != nil {
		update["category"] = *u.Category
	}
	if u.Rating != nil {
		update["rating"] = *u.Rating
	}
	if u.Reviews != nil {
		update["reviews"] = *u.Reviews
	}
	if u.Description != nil {
		update["description"] = *u.Description
	}
	if u.Specifications != nil {
		update["specifications"] = u.Specifications
	}
	if u.Stock != nil {
		update["stock"] = *u.Stock
	}
	return update
}
