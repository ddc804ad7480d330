package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type OrderService struct {
	orders      OrderStore
	carts       CartStore
	products    ProductLookup
	shippingFee int64
}

func NewOrderService(orders OrderStore, carts CartStore, products ProductLookup, shippingFee int64) *OrderService {
	return &OrderService{
		orders:      orders,
		carts:       carts,
		products:    products,
		shippingFee: shippingFee,
	}
}

// PlaceOrder turns the caller's cart into a pending order priced at live
// catalog prices, then empties the cart. Stock is checked, not reserved.
func (s *OrderService) PlaceOrder(ctx context.Context, p auth.Principal, addr models.ShippingAddress, paymentMethod string) (*models.Order, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}
	if paymentMethod == "" {
		paymentMethod = models.DefaultPaymentMethod
	}
	if !slices.Contains(models.PaymentMethods, paymentMethod) {
		return nil, apperror.NewValidation("Phương thức thanh toán không hợp lệ")
	}

	c, err := s.carts.FindByUser(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperror.NewValidation("Giỏ hàng trống")
		}
		return nil, storeErr("load cart", err)
	}
	if len(c.Items) == 0 {
		return nil, apperror.NewValidation("Giỏ hàng trống")
	}

	items := make([]models.OrderItem, 0, len(c.Items))
	var itemsPrice int64
	for _, line := range c.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, apperror.New(apperror.ProductNotFound, fmt.Sprintf("Sản phẩm %s không còn được bán", line.Name))
			}
			return nil, storeErr("load product", err)
		}
		if line.Quantity > product.Stock {
			return nil, apperror.NewOutOfStock(product.Stock)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Image:     product.Image,
		})
		itemsPrice += product.Price * int64(line.Quantity)
	}

	order := &models.Order{
		UserID:          p.UserID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   s.shippingFee,
		TotalPrice:      itemsPrice + s.shippingFee,
		Status:          models.OrderStatusPending,
	}

	// Empty the cart first, conditional on the version the order was priced
	// from, so a concurrent cart edit cannot slip past checkout.
	lines := c.Items
	cart.Clear(c)
	if err := s.carts.Save(ctx, c); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperror.New(apperror.Conflict, "Giỏ hàng vừa được cập nhật, vui lòng thử lại")
		}
		return nil, storeErr("clear cart", err)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		c.Items = lines
		if rerr := s.carts.Save(ctx, c); rerr != nil {
			slog.Error("failed to restore cart after order failure", "user_id", p.UserID.Hex(), "err", rerr)
		}
		return nil, storeErr("create order", err)
	}

	slog.Info("order placed", "order_id", order.ID.Hex(), "user_id", p.UserID.Hex(), "total", order.TotalPrice)
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, p auth.Principal) ([]*models.Order, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}
	orders, err := s.orders.FindAll(ctx, p.UserID)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	return orders, nil
}

// Get returns an order to its owner or to an admin. Anyone else sees NotFound.
func (s *OrderService) Get(ctx context.Context, p auth.Principal, rawID string) (*models.Order, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}
	id, err := parseID(rawID, "ID đơn hàng")
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.New(apperror.NotFound, "Không tìm thấy đơn hàng")
		}
		return nil, storeErr("get order", err)
	}
	if order.UserID != p.UserID && !p.IsAdmin() {
		return nil, apperror.New(apperror.NotFound, "Không tìm thấy đơn hàng")
	}
	return order, nil
}

// ListAll lists every order, or one user's when rawUserID is set. Callers gate it to admins.
func (s *OrderService) ListAll(ctx context.Context, rawUserID string) ([]*models.Order, error) {
	userID := primitive.NilObjectID
	if rawUserID != "" {
		id, err := parseID(rawUserID, "ID người dùng")
		if err != nil {
			return nil, err
		}
		userID = id
	}

	orders, err := s.orders.FindAll(ctx, userID)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	return orders, nil
}
