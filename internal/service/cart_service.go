package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/repository"
)

// maxSaveAttempts bounds the reload-and-reapply loop on version conflicts.
const maxSaveAttempts = 3

// CartService runs each cart operation as load, mutate, conditional save.
type CartService struct {
	carts    CartStore
	products ProductLookup
	now      func() time.Time
}

func NewCartService(carts CartStore, products ProductLookup) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		now:      time.Now,
	}
}

// GetCart returns the caller's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, p auth.Principal) (*models.CartView, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}

	c, err := s.loadOrCreate(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return cart.View(c), nil
}

func (s *CartService) AddToCart(ctx context.Context, p auth.Principal, productID string, quantity int) (*models.CartView, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}
	id, err := parseID(productID, "ID sản phẩm")
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperror.NewValidation("Số lượng phải lớn hơn 0")
	}

	product, err := s.lookupProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	retry := false
	c, err := s.mutate(ctx, p.UserID, true, func(c *models.Cart) error {
		// a lost save means stock may have moved too
		if retry {
			live, err := s.lookupProduct(ctx, id)
			if err != nil {
				return err
			}
			product = live
		}
		retry = true
		return cart.UpsertItem(c, product, quantity)
	})
	if err != nil {
		return nil, err
	}
	return cart.View(c), nil
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, p auth.Principal, productID string, quantity int) (*models.CartView, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}
	id, err := parseID(productID, "ID sản phẩm")
	if err != nil {
		return nil, err
	}

	c, err := s.mutate(ctx, p.UserID, false, func(c *models.Cart) error {
		if !cart.HasItem(c, id) {
			return apperror.New(apperror.ItemNotFound, "Product not found in cart")
		}
		var live *models.Product
		if quantity > 0 {
			product, err := s.lookupProduct(ctx, id)
			if err != nil {
				return err
			}
			live = product
		}
		return cart.SetItemQuantity(c, id, quantity, live)
	})
	if err != nil {
		return nil, err
	}
	return cart.View(c), nil
}

// RemoveFromCart is idempotent: removing an absent product succeeds.
func (s *CartService) RemoveFromCart(ctx context.Context, p auth.Principal, productID string) (*models.CartView, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}
	id, err := parseID(productID, "ID sản phẩm")
	if err != nil {
		return nil, err
	}

	c, err := s.mutate(ctx, p.UserID, false, func(c *models.Cart) error {
		if !cart.HasItem(c, id) {
			return errUnchanged
		}
		cart.RemoveItem(c, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart.View(c), nil
}

// errUnchanged tells mutate the cart needs no write.
var errUnchanged = errors.New("cart unchanged")

// mutate loads the cart, applies fn and saves conditionally on the loaded
// version. A concurrent save makes it reload and apply fn again.
func (s *CartService) mutate(ctx context.Context, userID primitive.ObjectID, create bool, fn func(*models.Cart) error) (*models.Cart, error) {
	for attempt := 1; ; attempt++ {
		var (
			c   *models.Cart
			err error
		)
		if create {
			c, err = s.loadOrCreate(ctx, userID)
		} else {
			c, err = s.load(ctx, userID)
		}
		if err != nil {
			return nil, err
		}

		if err := fn(c); err != nil {
			if errors.Is(err, errUnchanged) {
				return c, nil
			}
			return nil, err
		}

		err = s.carts.Save(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, storeErr("save cart", err)
		}
		if attempt >= maxSaveAttempts {
			slog.Warn("cart save gave up after version conflicts", "user_id", userID.Hex(), "attempts", attempt)
			return nil, apperror.New(apperror.Conflict, "Giỏ hàng vừa được cập nhật, vui lòng thử lại")
		}
		slog.Info("cart version conflict, retrying", "user_id", userID.Hex(), "attempt", attempt)
	}
}

func (s *CartService) load(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperror.New(apperror.CartNotFound, "Cart not found")
		}
		return nil, storeErr("load cart", err)
	}
	return c, nil
}

func (s *CartService) loadOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	existing, err := s.carts.FindByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, storeErr("load cart", err)
	}

	c, _ := cart.Ensure(nil, userID, s.now())
	err = s.carts.Create(ctx, c)
	if errors.Is(err, repository.ErrCartExists) {
		// another request created it first
		c, err = s.carts.FindByUser(ctx, userID)
	}
	if err != nil {
		return nil, storeErr("create cart", err)
	}
	return c, nil
}

func (s *CartService) lookupProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.New(apperror.ProductNotFound, "Product not found")
		}
		return nil, storeErr("load product", err)
	}
	return product, nil
}
